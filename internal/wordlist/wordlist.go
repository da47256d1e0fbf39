// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_en.txt
var defaultEnglish string

// ErrEmpty is returned when a list has no usable words.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads one word per line from path, keeping words accepted by the
// language filter.
func LoadWords(path, lang string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return readWords(file, FilterForLang(lang))
}

// Load reads the list at path. When the file does not exist and lang is
// English, the embedded list is returned and fromFile is false.
func Load(path, lang string) (words []string, fromFile bool, err error) {
	words, err = LoadWords(path, lang)
	if err == nil {
		return words, true, nil
	}
	if errors.Is(err, os.ErrNotExist) && strings.EqualFold(lang, "en") {
		words, err = Default()
		return words, false, err
	}
	return nil, false, err
}

// Default returns the embedded English word list.
func Default() ([]string, error) {
	return readWords(strings.NewReader(defaultEnglish), FilterForLang("en"))
}

func readWords(r io.Reader, keep FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
