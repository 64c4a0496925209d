package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// takes a save path and a variable number of strings and writes them to file separated by new lines
func WriteToFile(savePath string, content ...string) error {
	if err := ensureParent(savePath); err != nil {
		return err
	}
	singleString := ""
	for _, c := range content {
		singleString = fmt.Sprintf("%s%s\n", singleString, c)
	}

	return os.WriteFile(savePath, []byte(singleString), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	if err := ensureParent(savePath); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON marshals v with indentation to savePath
func WriteJSON(savePath string, v any) error {
	if err := ensureParent(savePath); err != nil {
		return err
	}
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(savePath, bs, 0644)
}

func ensureParent(savePath string) error {
	dir := filepath.Dir(savePath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, os.ModePerm)
}
