package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"inventory_manager/domain"
)

// readProducts parses a seed file holding either a JSON array of products or
// one JSON object per line.
func readProducts(path string) ([]domain.Product, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty seed file")
	}

	var products []domain.Product
	if b[0] == '[' {
		if err := json.Unmarshal(b, &products); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return products, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(b))
	for n := 1; scanner.Scan(); n++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var p domain.Product
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("decode %s line %d: %w", path, n, err)
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
