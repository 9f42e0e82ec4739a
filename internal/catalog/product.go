// Package catalog turns product JSON records into indexable documents.
// It is the producer side of the retrieval pipeline: `vitrine index` loads
// a catalog file, renders each product as text, chunks it, and hands the
// chunks to a vector store backend.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

// Product is one catalog record as stored in the product JSON export.
type Product struct {
	ID        string   `json:"id"`
	Nome      string   `json:"nome"`
	Categoria string   `json:"categoria"`
	Descricao string   `json:"descricao"`
	Preco     float64  `json:"preco"`
	Tamanhos  []string `json:"tamanhos"`
	Cores     []string `json:"cores"`
}

// Text renders the product as the text block that gets embedded. Price,
// sizes, and colors always appear when present: the answer prompt requires
// them, so they must be retrievable.
func (p Product) Text() string {
	var sb strings.Builder

	sb.WriteString(p.Nome)
	if p.Categoria != "" {
		sb.WriteString(" (" + p.Categoria + ")")
	}
	sb.WriteString("\n")

	if p.Preco > 0 {
		sb.WriteString("Preço: " + FormatPrice(p.Preco) + "\n")
	}
	if len(p.Tamanhos) > 0 {
		sb.WriteString("Tamanhos: " + strings.Join(p.Tamanhos, ", ") + "\n")
	}
	if len(p.Cores) > 0 {
		sb.WriteString("Cores: " + strings.Join(p.Cores, ", ") + "\n")
	}
	if p.Descricao != "" {
		sb.WriteString("\n" + p.Descricao)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatPrice renders a price in the Brazilian convention: R$120,00.
func FormatPrice(v float64) string {
	return "R$" + strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

// Load reads a product catalog from a JSON array file.
func Load(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	return products, nil
}

// Documents chunks every product and returns the store-ready documents.
// Chunk IDs are stable across re-runs so ingestion upserts instead of
// duplicating; products without an ID get a random one.
func Documents(products []Product, sourceName string, chunker Chunker) ([]vectorstore.Document, error) {
	var docs []vectorstore.Document

	for _, p := range products {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		chunks, err := chunker.Split(p.Text())
		if err != nil {
			return nil, fmt.Errorf("chunking product %q: %w", id, err)
		}

		for i, chunk := range chunks {
			docs = append(docs, vectorstore.Document{
				ID:      fmt.Sprintf("%s:%d", id, i),
				Content: chunk,
				Metadata: map[string]string{
					"source":     filepath.Base(sourceName),
					"product_id": id,
					"categoria":  p.Categoria,
				},
			})
		}
	}

	return docs, nil
}
