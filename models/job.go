package models

import "fmt"

// SourceImage is a discovered screenshot. Size is only used to rank it.
type SourceImage struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// TargetSpec is a named output resolution paired with its destination directory.
type TargetSpec struct {
	Name   string `yaml:"name" json:"name" validate:"required"`
	Label  string `yaml:"label" json:"label"`
	Dir    string `yaml:"dir" json:"dir" validate:"required"`
	Width  int    `yaml:"width" json:"width" validate:"gt=0"`
	Height int    `yaml:"height" json:"height" validate:"gt=0"`
}

// DisplayName is the label printed in the closing summary, falling back to Name.
func (t TargetSpec) DisplayName() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

func (t TargetSpec) String() string {
	return fmt.Sprintf("%s (%dx%d)", t.Name, t.Width, t.Height)
}

// WriterJob describes one publish destination for written artifacts.
type WriterJob struct {
	Type        string            `yaml:"type" json:"type" validate:"required,oneof=local s3 gcs sftp"`
	Prefix      string            `yaml:"prefix" json:"prefix"`
	Credentials map[string]string `yaml:"credentials" json:"-"` // backend specific, never serialized into records
}
