package presentation

import (
	"github.com/zjrosen/templater/internal/registry"
	"github.com/zjrosen/templater/internal/templates"
)

// TemplateDTO represents a registered template for presentation
type TemplateDTO struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ConfigDTO represents the registry record for presentation
type ConfigDTO struct {
	RecordPath   string        `json:"record_path"`
	Version      string        `json:"version"`
	TemplateRoot string        `json:"template_root"`
	Templates    []TemplateDTO `json:"templates"`
}

// FromEntry converts a registry entry to a DTO
func FromEntry(e registry.Entry) TemplateDTO {
	return TemplateDTO{Name: e.Name, Kind: string(e.Kind)}
}

// FromEntries converts registry entries to DTOs. The result is never nil so
// that JSON output is always an array.
func FromEntries(entries []registry.Entry) []TemplateDTO {
	dtos := make([]TemplateDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, FromEntry(e))
	}
	return dtos
}

// FromConfigView converts the store's view of the registry to a DTO
func FromConfigView(v templates.ConfigView) ConfigDTO {
	return ConfigDTO{
		RecordPath:   v.RecordPath,
		Version:      v.Version,
		TemplateRoot: v.TemplateRoot,
		Templates:    FromEntries(v.Templates),
	}
}
