package registry

import "errors"

// Registry errors. Messages name the command that fixes the condition.
var (
	ErrNotInitialized         = errors.New("the template directory is not initialized, run `templater init` first")
	ErrAlreadyInitialized     = errors.New("the template directory is already initialized, run `templater init delete` to delete it")
	ErrTemplateDoesNotExist   = errors.New("template does not exist, run `templater show templates` to list templates or `templater save <NAME> <PATH>` to add it")
	ErrTemplateAlreadyExists  = errors.New("template already exists, run `templater save <NAME> <PATH> --overwrite` to overwrite it")
	ErrInvalidRemoteManifest  = errors.New("remote repository has no config.json manifest, add one listing {\"templates\": [...]} at the repository root")
	ErrInvalidDestinationPath = errors.New("destination must be an existing directory, create it before running `templater load`")
	ErrInvalidSourcePath      = errors.New("source must be an existing directory")
	ErrInvalidTemplateName    = errors.New("invalid template name, use a single path segment other than `temp`")
	ErrHomeDirectoryNotFound  = errors.New("home directory not found, run `templater init --path <DIR>` to choose a location")
	ErrConfigLocation         = errors.New("cannot locate the registry config directory")
	ErrInvalidRemoteURL       = errors.New("invalid remote URL, pass a URL such as https://host/owner/repo.git")
)
