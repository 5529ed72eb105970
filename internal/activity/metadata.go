package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
)

// MetadataFilename is the fixed path of the task-metadata record inside
// every activity branch
const MetadataFilename = "_task.yml"

// readMetadataAt reads the task metadata at the tip of a revision without
// checking it out. A missing file yields an empty record, not an error, so
// callers must treat all fields as optional.
func readMetadataAt(repo *git.Repository, rev string) (TaskMetadata, error) {
	data, err := repo.FileAtRevision(rev, MetadataFilename)
	if err != nil {
		if errors.Is(err, inkwellerrors.ErrPathNotFound) {
			return TaskMetadata{}, nil
		}
		return TaskMetadata{}, err
	}

	var meta TaskMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return TaskMetadata{}, fmt.Errorf("failed to parse %s: %w", MetadataFilename, err)
	}

	return meta, nil
}

// metadataFromTag reads task metadata from the message of the tag left
// behind when an activity was published
func metadataFromTag(tagMessage string) TaskMetadata {
	var meta TaskMetadata
	// tag messages carry the metadata record as JSON
	_ = json.Unmarshal([]byte(tagMessage), &meta)
	return meta
}

// writeMetadataFile serializes the record to the metadata file in the
// working tree. Write-once: metadata is committed at branch creation and
// never updated in place.
func writeMetadataFile(repo *git.Repository, meta TaskMetadata) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to serialize task metadata: %w", err)
	}

	if err := os.WriteFile(repo.FullPath(MetadataFilename), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", MetadataFilename, err)
	}

	return nil
}
