//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/dremio --repository.default-branch master --repository.path /

// Package dremio is a client for a remote analytics-query coordinator.
//
// The heart of the client is a lazily populated catalog tree: Data returns
// a root node that fetches spaces, sources and homes on first access, and
// every container below it expands itself the first time a child is looked
// up. Nodes can be edited locally and committed back, and datasets can be
// queried directly.
//
// Example usage:
//
//	c, err := dremio.New(
//	    dremio.WithHost("localhost", 9047),
//	    dremio.WithBasicAuth("dremio", "dremio123"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	root, err := c.Data(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trips, err := root.Get(ctx, "adls", "nyctaxi", "trips")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rows, err := trips.Query(ctx)
//
// Query prefers Arrow Flight and falls back to the REST job API when the
// Flight endpoint is not configured or not reachable.
package dremio
