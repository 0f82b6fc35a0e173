package lib

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
)

func EnsureEmptyDirectory(path string, overwriteOnCollision bool) error {
	if overwriteOnCollision {
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrapf(err, "failed to delete path: %s", path)
		}
	} else {
		fileInfo, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return errors.Wrapf(err, "failed to check path for existing folder/file: %s", path)
			}
		} else {
			if fileInfo.IsDir() {
				return fmt.Errorf("directory already exists: %s", path)
			} else {
				return fmt.Errorf("directory is already a file: %s", path)
			}
		}
	}

	return os.MkdirAll(path, os.ModePerm)
}

// CopyFile copies sourcePath from sourceFs to targetPath on disk.
// Files are written with 0600 since they may end up holding secrets.
func CopyFile(sourceFs fs.FS, sourcePath, targetPath string) error {
	sourceFile, err := sourceFs.Open(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "failed to open source file for copying %s", targetPath)
	}
	defer sourceFile.Close()

	targetFile, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrapf(err, "failed to create new file %s", targetPath)
	}
	defer targetFile.Close()

	if _, err := io.Copy(targetFile, sourceFile); err != nil {
		return errors.Wrapf(err, "failed to write file %s", targetPath)
	}

	return nil
}

// CopyDirectory copies the files under sourceBasePath into targetBasePath, reporting every entry to out
func CopyDirectory(out io.Writer, sourceFs fs.FS, sourceBasePath string, targetBasePath string) error {
	return fs.WalkDir(sourceFs, sourceBasePath, func(sourcePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to walk path %s", sourcePath)
		}

		rel, err := filepath.Rel(sourceBasePath, sourcePath)
		if err != nil {
			return errors.Wrapf(err, "failed to get rel to base path for %s", sourcePath)
		}
		targetPath := filepath.Join(targetBasePath, rel)

		if d.IsDir() {
			if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
				return errors.Wrapf(err, "failed to create directory: %s", targetPath)
			}
			return nil
		}

		fmt.Fprintf(out, "[FILE]: %s", targetPath)
		if err := CopyFile(sourceFs, sourcePath, targetPath); err != nil {
			return errors.Wrap(err, "failed to copy file")
		}
		color.New(color.FgGreen).Fprintln(out, " - OK")

		return nil
	})
}
