package memory

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
	Brand       string `yaml:"brand"`
	Price       int64  `yaml:"price"`
	SalePrice   int64  `yaml:"salePrice"`
	TotalStock  int32  `yaml:"totalStock"`
}

// LoadSeed reads a YAML product list from path.
func LoadSeed(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

func DecodeSeed(r io.Reader) ([]domain.Product, error) {
	var sf seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make([]domain.Product, 0, len(sf.Products))
	for i, sp := range sf.Products {
		if sp.Title == "" || sp.Price <= 0 {
			return nil, fmt.Errorf("seed product %d: title and positive price required", i)
		}
		out = append(out, domain.Product{
			ID:          sp.ID,
			Title:       sp.Title,
			Description: sp.Description,
			Image:       sp.Image,
			Category:    sp.Category,
			Brand:       sp.Brand,
			Price:       sp.Price,
			SalePrice:   sp.SalePrice,
			TotalStock:  sp.TotalStock,
		})
	}
	return out, nil
}
