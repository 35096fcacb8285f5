package saver

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
)

//WriterCloser keeps Writer interface and close function
type WriterCloser interface {
	io.Writer
	Close() error
}

//OpenFileFunc declares function to open file by name and return Writer
type OpenFileFunc func(fileName string) (WriterCloser, error)

// LocalFileSaver saves audio files on local disk.
// Keys may contain subdirectories, e.g. input/<jobID>/<fileName>
type LocalFileSaver struct {
	// StoragePath is the main folder to save into
	StoragePath  string
	OpenFileFunc OpenFileFunc
}

//NewLocalFileSaver creates LocalFileSaver instance
func NewLocalFileSaver(storagePath string) (*LocalFileSaver, error) {
	if storagePath == "" {
		return nil, errors.New("no storage path provided")
	}
	f := LocalFileSaver{StoragePath: storagePath, OpenFileFunc: openFile}
	return &f, nil
}

// Save saves file to disk
func (fs LocalFileSaver) Save(name string, reader io.Reader) error {
	fileName := filepath.Join(fs.StoragePath, filepath.Clean("/"+name))
	f, err := fs.OpenFileFunc(fileName)
	if err != nil {
		return errors.Wrap(err, "can't create file "+fileName)
	}
	defer f.Close()
	savedBytes, err := io.Copy(f, reader)
	if err != nil {
		return errors.Wrap(err, "can't save file "+fileName)
	}
	cmdapp.Log.Infof("Saved file %s. Size = %d", fileName, savedBytes)
	return nil
}

// Open returns saved file content for reading
func (fs LocalFileSaver) Open(name string) (io.ReadCloser, error) {
	fileName := filepath.Join(fs.StoragePath, filepath.Clean("/"+name))
	return os.Open(fileName)
}

func openFile(fileName string) (WriterCloser, error) {
	if err := os.MkdirAll(filepath.Dir(fileName), 0777); err != nil {
		return nil, err
	}
	return os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
}
