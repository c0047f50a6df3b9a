package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/gamebase/engine/serial"
)

type Loader interface {
	Load(path string, params interface{}) (*Resource, error) // `interface{}` here allows loaders to take loader specific options
	Unload(*Resource) error
}

func resourceName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

type TextLoader struct{}

func (tl *TextLoader) Load(path string, params interface{}) (*Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read text file %s", path)
	}
	return &Resource{
		Name:     resourceName(path),
		FullPath: path,
		Type:     ResourceTypeText,
		DataSize: uint64(len(buf)),
		Data:     string(buf),
	}, nil
}

func (tl *TextLoader) Unload(*Resource) error {
	return nil
}

type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string, params interface{}) (*Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read binary file %s", path)
	}
	return &Resource{
		Name:     resourceName(path),
		FullPath: path,
		Type:     ResourceTypeBinary,
		DataSize: uint64(len(buf)),
		Data:     buf,
	}, nil
}

func (bl *BinaryLoader) Unload(res *Resource) error {
	res.Data = nil
	return nil
}

// DesignLoader decodes a design document into its root object. params may
// carry the *serial.Registry to resolve types with.
type DesignLoader struct{}

func (dl *DesignLoader) Load(path string, params interface{}) (*Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read design %s", path)
	}
	var opts []serial.Option
	if r, ok := params.(*serial.Registry); ok && r != nil {
		opts = append(opts, serial.WithRegistry(r))
	}
	obj, err := serial.Unmarshal[any](buf, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load design %s", path)
	}
	return &Resource{
		Name:     resourceName(path),
		FullPath: path,
		Type:     ResourceTypeDesign,
		DataSize: uint64(len(buf)),
		Data:     obj,
	}, nil
}

func (dl *DesignLoader) Unload(res *Resource) error {
	res.Data = nil
	return nil
}
