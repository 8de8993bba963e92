package catalog

// Kind identifies the entity kind of a catalog node.
type Kind string

// Entity kinds.
const (
	KindRoot            Kind = "root"
	KindSource          Kind = "source"
	KindSpace           Kind = "space"
	KindHome            Kind = "home"
	KindFolder          Kind = "folder"
	KindFile            Kind = "file"
	KindPhysicalDataset Kind = "physical_dataset"
	KindVirtualDataset  Kind = "virtual_dataset"
)

// Raw classification values found in an Item.
const (
	TypeContainer = "CONTAINER"
	TypeDataset   = "DATASET"
	TypeFile      = "FILE"

	ContainerHome   = "HOME"
	ContainerSpace  = "SPACE"
	ContainerSource = "SOURCE"
	ContainerFolder = "FOLDER"

	PhysicalDatasetType = "PHYSICAL_DATASET"
	VirtualDatasetType  = "VIRTUAL_DATASET"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// IsDataset reports whether k is a physical or virtual dataset.
func (k Kind) IsDataset() bool {
	return k == KindPhysicalDataset || k == KindVirtualDataset
}

// Expandable reports whether nodes of this kind are listed lazily.
func (k Kind) Expandable() bool {
	switch k {
	case KindSource, KindHome, KindSpace, KindFolder, KindRoot, KindPhysicalDataset, KindVirtualDataset:
		return true
	default:
		return false
	}
}

// EntityType is the wire entityType for the kind. Root has none.
func (k Kind) EntityType() string {
	switch k {
	case KindRoot:
		return ""
	case KindPhysicalDataset, KindVirtualDataset:
		return "dataset"
	default:
		return string(k)
	}
}
