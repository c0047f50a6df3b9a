package assets

import "path/filepath"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown file, not indexed. */
	ResourceTypeNone ResourceType = iota
	/** @brief Text resource type. */
	ResourceTypeText
	/** @brief Binary resource type. */
	ResourceTypeBinary
	/** @brief A serialized design document. */
	ResourceTypeDesign
	/** @brief Editor settings. */
	ResourceTypeSettings
	/** @brief Image referenced by a design, loaded as raw bytes. */
	ResourceTypeImage
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeDesign:
		return "design"
	case ResourceTypeSettings:
		return "settings"
	case ResourceTypeImage:
		return "image"
	}
	return "none"
}

type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

func determineAssetType(path string) ResourceType {
	switch filepath.Ext(path) {
	case ".json":
		return ResourceTypeDesign
	case ".toml":
		return ResourceTypeSettings
	case ".png", ".jpg", ".tga":
		return ResourceTypeImage
	case ".txt":
		return ResourceTypeText
	case ".bin":
		return ResourceTypeBinary
	default:
		return ResourceTypeNone
	}
}
