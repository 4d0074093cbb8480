/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package catalog keeps the summaries of parsed containers in a bbolt database,
// one bucket per container.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-snxrom/pkg/container"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

const (
	BucketPrefix = "container_"
	SummaryKey   = "summary"
	AddedKey     = "added"
	openTimeout  = time.Second
)

type Entry struct {
	Name    string             `json:"name"`
	Added   time.Time          `json:"added"`
	Summary *container.Summary `json:"summary"`
}

func (e *Entry) String() string {
	result, err := yaml.Marshal(e)
	if err != nil {
		log.Info("Error occured while marshaling catalog entry, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

type State struct {
	DB *bbolt.DB
}

func NewState(path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, err
	}
	return &State{DB: db}, nil
}

// Close ...
func (s *State) Close() error {
	return s.DB.Close()
}

func BucketName(name string) string {
	return fmt.Sprintf("%s%s", BucketPrefix, name)
}

// AddSummary stores the summary under name, replacing any previous one
func (s *State) AddSummary(name string, summary *container.Summary) error {
	log.Debug("Adding container summary: %s", name)
	summaryBytes, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}
	added, err := time.Now().UTC().MarshalText()
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketName(name)))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(SummaryKey), summaryBytes); err != nil {
			return err
		}
		return b.Put([]byte(AddedKey), added)
	})
}

func readEntry(name string, b *bbolt.Bucket) (*Entry, error) {
	summaryBytes := b.Get([]byte(SummaryKey))
	if summaryBytes == nil {
		return nil, &ErrNotFound{Name: name}
	}
	entry := &Entry{Name: name, Summary: &container.Summary{}}
	if err := yaml.Unmarshal(summaryBytes, entry.Summary); err != nil {
		log.Error("Error while unmarshalling summary of %s: %s", name, err)
		return nil, err
	}
	if added := b.Get([]byte(AddedKey)); added != nil {
		if err := entry.Added.UnmarshalText(added); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// GetSummary ...
func (s *State) GetSummary(name string) (*Entry, error) {
	log.Debug("Getting container summary: %s", name)
	var entry *Entry
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(name)))
		if b == nil {
			return &ErrNotFound{Name: name}
		}
		var err error
		entry, err = readEntry(name, b)
		return err
	}); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetAllSummaries returns every entry ordered by name
func (s *State) GetAllSummaries() ([]*Entry, error) {
	log.Debug("Getting all container summaries")
	var entries []*Entry
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(bucketName []byte, b *bbolt.Bucket) error {
			name := string(bucketName)
			if !strings.HasPrefix(name, BucketPrefix) {
				return nil
			}
			entry, err := readEntry(strings.TrimPrefix(name, BucketPrefix), b)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *State) Remove(name string) error {
	log.Debug("Removing container summary: %s", name)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket([]byte(BucketName(name)))
		if err == bbolt.ErrBucketNotFound {
			return &ErrNotFound{Name: name}
		}
		return err
	})
}
