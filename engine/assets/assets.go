package assets

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/gamebase/engine/containers"
	"github.com/spaghettifunk/gamebase/engine/core"
)

const changeQueueSize = 256

type AssetInfo struct {
	Path       string
	Type       ResourceType
	LastLoaded time.Time
}

type ChangeOp int

const (
	ChangeCreated ChangeOp = iota
	ChangeModified
	ChangeRemoved
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	}
	return "removed"
}

// Change is one file system change of an indexed asset.
type Change struct {
	Path string
	Op   ChangeOp
	Type ResourceType
	At   time.Time
}

// Watcher indexes asset files under watched directories and queues their
// changes until the owner polls them from its update loop.
type Watcher struct {
	assets  map[string]AssetInfo
	loaders map[ResourceType]Loader
	// only these paths are reported when non-empty
	files map[string]bool

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  *containers.RingQueue[Change]
}

func NewWatcher() (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "can't create file watcher")
	}

	w := &Watcher{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[ResourceType]Loader),
		files:    make(map[string]bool),
		fsnotify: fsWatch,
		changes:  containers.NewRingQueue[Change](changeQueueSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Register loaders
	w.registerLoader(ResourceTypeDesign, &DesignLoader{})
	w.registerLoader(ResourceTypeText, &TextLoader{})
	w.registerLoader(ResourceTypeSettings, &TextLoader{})
	w.registerLoader(ResourceTypeBinary, &BinaryLoader{})
	w.registerLoader(ResourceTypeImage, &BinaryLoader{})

	go w.start()
	return w, nil
}

// WatchDir starts watching dir and all its sub-directories.
func (w *Watcher) WatchDir(dir string) error {
	if w.closed() {
		return errors.New("watcher already closed")
	}
	return w.watchRecursive(dir, false)
}

// WatchFile reports changes of a single file. Its directory is watched so
// that editors replacing the file on save are still noticed.
func (w *Watcher) WatchFile(path string) error {
	if w.closed() {
		return errors.New("watcher already closed")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "can't resolve %s", path)
	}
	w.mutex.Lock()
	w.files[abs] = true
	w.mutex.Unlock()
	w.handleFileEvent(abs)
	return w.fsnotify.Add(filepath.Dir(abs))
}

// UnwatchDir stops watching dir and all its sub-directories.
func (w *Watcher) UnwatchDir(dir string) error {
	return w.watchRecursive(dir, true)
}

// Register loaders for each asset type
func (w *Watcher) registerLoader(assetType ResourceType, loader Loader) {
	w.loaders[assetType] = loader
}

// Assets returns the indexed assets of the given type.
func (w *Watcher) Assets(assetType ResourceType) []AssetInfo {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	var out []AssetInfo
	for _, info := range w.assets {
		if info.Type == assetType {
			out = append(out, info)
		}
	}
	return out
}

// LoadAsset loads an indexed asset with the loader of its type.
func (w *Watcher) LoadAsset(path string, params interface{}) (*Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't resolve %s", path)
	}

	w.mutex.Lock()
	asset, exists := w.assets[abs]
	if exists {
		// Update the loaded time
		asset.LastLoaded = time.Now()
		w.assets[abs] = asset
	}
	w.mutex.Unlock()
	if !exists {
		return nil, errors.Newf("asset not found: %s", path)
	}

	loader, loaderExists := w.loaders[asset.Type]
	if !loaderExists {
		return nil, errors.Newf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Load(abs, params)
}

func (w *Watcher) UnloadAsset(res *Resource) error {
	loader, ok := w.loaders[res.Type]
	if !ok {
		return nil
	}
	return loader.Unload(res)
}

// Poll drains the queued changes in arrival order.
func (w *Watcher) Poll() []Change {
	return w.changes.Drain()
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return nil
	}
	w.isClosed = true
	w.mutex.Unlock()
	close(w.done)
	<-w.stopped
	return nil
}

func (w *Watcher) closed() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.isClosed
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					_ = w.watchRecursive(e.Name, false)
				}
				continue
			}
			// Handle create or modify events
			if e.Op&fsnotify.Create != 0 {
				w.queue(e.Name, ChangeCreated)
			} else if e.Op&fsnotify.Write != 0 {
				w.queue(e.Name, ChangeModified)
			}
			// Renames show up as a remove of the old name
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.queue(e.Name, ChangeRemoved)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("file watcher: %s", err.Error())

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) queue(path string, op ChangeOp) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mutex.RLock()
	filtered := len(w.files) > 0 && !w.files[abs]
	w.mutex.RUnlock()
	if filtered {
		return
	}

	if op == ChangeRemoved {
		w.removeAsset(abs)
	} else {
		w.handleFileEvent(abs)
	}
	assetType := determineAssetType(abs)
	if assetType == ResourceTypeNone {
		return
	}
	if err := w.changes.Enqueue(Change{Path: abs, Op: op, Type: assetType, At: time.Now()}); err != nil {
		core.LogWarn("dropping change of %s: %s", abs, err.Error())
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (w *Watcher) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return w.fsnotify.Remove(walkPath)
			}
			return w.fsnotify.Add(walkPath)
		}
		if abs, err := filepath.Abs(walkPath); err == nil {
			if unWatch {
				w.removeAsset(abs)
			} else {
				w.handleFileEvent(abs)
			}
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (w *Watcher) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == ResourceTypeNone {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
}

// Remove the asset from the index if it was deleted
func (w *Watcher) removeAsset(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	delete(w.assets, path)
}
