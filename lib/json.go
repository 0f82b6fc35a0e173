package lib

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adhocore/jsonc"
	"github.com/friendsofgo/errors"
)

// ReadJSONOrJSON5AsJSON reads a .json or .json5 file and returns it as plain JSON.
// path may include the extension. Without one, both name.json and name.json5 are tried
// and an error is returned if both exist.
// returns os.ErrNotExist if no file is found
func ReadJSONOrJSON5AsJSON(path string) (data []byte, wasJSON5 bool, err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	searchFs := os.DirFS(dir)

	var filePath string
	switch filepath.Ext(name) {
	case ".json":
		filePath = name
	case ".json5":
		filePath, wasJSON5 = name, true
	default:
		filePath, wasJSON5, err = findJSONOrJSON5Path(searchFs, name)
		if err != nil {
			return nil, false, errors.Wrap(err, "failed to find either json or json5 path")
		}
	}

	f, err := searchFs.Open(filePath)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to open file %s", filePath)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read json file %s", filePath)
	}

	if wasJSON5 {
		data = jsonc.New().Strip(data)
	}

	return data, wasJSON5, nil
}

// findJSONOrJSON5Path tries both the .json and .json5 extension
// returns an error if both are found
// returns os.ErrNotExist if neither are found
func findJSONOrJSON5Path(searchFs fs.FS, name string) (path string, json5 bool, err error) {
	jsonPath := name + ".json"
	json5Path := name + ".json5"

	jsonPathExists, err := fileExists(searchFs, jsonPath)
	if err != nil {
		return "", false, err
	}
	json5PathExists, err := fileExists(searchFs, json5Path)
	if err != nil {
		return "", false, err
	}

	switch {
	case jsonPathExists && json5PathExists:
		return "", false, fmt.Errorf("both a json and a json5 file were found. choose one")
	case jsonPathExists:
		return jsonPath, false, nil
	case json5PathExists:
		return json5Path, true, nil
	default:
		return "", false, errors.Wrap(os.ErrNotExist, "neither json or json5 file was found")
	}
}

func fileExists(searchFs fs.FS, path string) (bool, error) {
	info, err := fs.Stat(searchFs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to get info on %s", path)
	}

	if info.IsDir() {
		return false, fmt.Errorf("expected json file, but found directory %s", path)
	}

	return true, nil
}
