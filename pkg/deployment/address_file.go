// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/spf13/afero"
)

// WriteAddressFile replaces the contents of path with address. No newline is
// appended.
func WriteAddressFile(fs afero.Fs, path, address string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, constants.DefaultPerms755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, []byte(address), constants.WriteReadReadPerms); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadAddressFile returns the address persisted by a previous deployment.
func ReadAddressFile(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", constants.ErrNoAddressFile, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
