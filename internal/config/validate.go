package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateDuplicates(); err != nil {
		return err
	}
	if err := c.validateRename(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if len(c.Library.Extensions) == 0 {
		return errors.New("library.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateDuplicates() error {
	switch c.Duplicates.Digest {
	case DigestMD5, DigestSHA256, DigestMurmur3:
	default:
		return fmt.Errorf("duplicates.digest must be one of %q, %q, %q (got %q)", DigestMD5, DigestSHA256, DigestMurmur3, c.Duplicates.Digest)
	}
	if c.Duplicates.MaxCollisionAttempts < 1 {
		return errors.New("duplicates.max_collision_attempts must be positive")
	}
	return nil
}

func (c *Config) validateRename() error {
	if !strings.Contains(c.Rename.Pattern, "{title}") {
		return errors.New("rename.pattern must contain {title}")
	}
	if strings.ContainsAny(c.Rename.Pattern, `/\`) {
		return errors.New("rename.pattern must not contain path separators")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method must be silero or pyannote (got %q)", c.Transcription.VADMethod)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}
