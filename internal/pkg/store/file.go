package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

//FileJobStore persists the active job id in a local file, so a restarted
//client resumes watching the job it was started for
type FileJobStore struct {
	Path string
}

//NewFileJobStore creates a store at path
func NewFileJobStore(path string) (*FileJobStore, error) {
	if path == "" {
		return nil, errors.New("no store path provided")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "can't create store dir")
	}
	return &FileJobStore{Path: path}, nil
}

//Save persists the active job id, overwriting a previous one
func (s *FileJobStore) Save(id string) error {
	err := os.WriteFile(s.Path, []byte(id), 0644)
	return errors.Wrap(err, "can't save job id")
}

//Active returns the persisted job id
func (s *FileJobStore) Active() (string, bool) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	return id, id != ""
}

//Clear removes the persisted job id
func (s *FileJobStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "can't clear job id")
	}
	return nil
}
