//go:build cgo
// +build cgo

package onnx

import (
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

type destroyer interface {
	Destroy() error
}

var (
	runtimeMu sync.Mutex
	owned     []destroyer
)

// Init loads the onnxruntime shared library. An empty path falls back to
// ONNXRUNTIME_SHARED_LIBRARY_PATH, then to the library default.
func Init(sharedLibraryPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if sharedLibraryPath != "" {
		ort.SetSharedLibraryPath(sharedLibraryPath)
	} else if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
	}
	return ort.InitializeEnvironment()
}

// Shutdown releases every session and tensor created by this package and
// tears down the runtime environment.
func Shutdown() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	for i := len(owned) - 1; i >= 0; i-- {
		_ = owned[i].Destroy()
	}
	owned = nil
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

func track(values ...destroyer) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	owned = append(owned, values...)
}

func destroyAll(values ...destroyer) {
	for _, v := range values {
		if v != nil {
			_ = v.Destroy()
		}
	}
}
