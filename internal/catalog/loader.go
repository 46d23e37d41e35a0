package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orderbot/internal/domain/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// カタログファイルの形式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// カタログの読み込み失敗（起動時に致命的）
type LoadError struct {
	//問題のあったレコード番号（ファイル全体の問題なら -1）
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("catalog: ")
	if e.Index >= 0 {
		fmt.Fprintf(&b, "record %d: ", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// 外部カタログの1レコード。desc と description はどちらか必須
type record struct {
	ID          *int64  `json:"id" yaml:"id" validate:"required,gte=1"`
	Name        string  `json:"name" yaml:"name" validate:"required"`
	Desc        *string `json:"desc" yaml:"desc" validate:"required_without=Description"`
	Description *string `json:"description" yaml:"description"`
	Price       *price  `json:"price" yaml:"price" validate:"required"`
}

// JSONは数値でも文字列でも受ける（decimal.Decimal の UnmarshalJSON）
type price struct {
	decimal.Decimal
}

func (p *price) UnmarshalYAML(n *yaml.Node) error {
	d, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return fmt.Errorf("price %q is not numeric", n.Value)
	}
	p.Decimal = d
	return nil
}

var validate = validator.New()

// 拡張子から形式を決める（.yaml/.yml 以外はJSON）
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile はカタログファイルを読み、検証済みの商品一覧を返す。
func LoadFile(path string) ([]model.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Index: -1, Reason: "cannot read " + path, Err: err}
	}
	return Parse(data, FormatOf(path))
}

// Parse はレコードを全件検証する。1件でも壊れていれば全体を失敗にする。
func Parse(data []byte, format Format) ([]model.CatalogItem, error) {
	var records []record

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, &LoadError{Index: -1, Reason: "malformed yaml", Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&records); err != nil {
			return nil, &LoadError{Index: -1, Reason: "malformed json", Err: err}
		}
	}

	items := make([]model.CatalogItem, 0, len(records))
	seen := make(map[int64]int, len(records))

	for i, r := range records {
		r.Name = strings.TrimSpace(r.Name)

		if err := validate.Struct(r); err != nil {
			return nil, toLoadError(i, err)
		}
		if r.Price.IsNegative() {
			return nil, &LoadError{Index: i, Field: "price", Reason: "must be >= 0"}
		}
		//DBは numeric(12,2)。端数があると合計と明細がずれる
		if !r.Price.Equal(r.Price.Round(2)) {
			return nil, &LoadError{Index: i, Field: "price", Reason: "at most 2 decimal places"}
		}
		if prev, dup := seen[*r.ID]; dup {
			return nil, &LoadError{Index: i, Field: "id", Reason: fmt.Sprintf("duplicate of record %d", prev)}
		}
		seen[*r.ID] = i

		desc := ""
		if r.Description != nil {
			desc = *r.Description
		} else if r.Desc != nil {
			desc = *r.Desc
		}

		items = append(items, model.CatalogItem{
			ID:          *r.ID,
			Name:        r.Name,
			Description: strings.TrimSpace(desc),
			Price:       r.Price.Decimal,
		})
	}

	return items, nil
}

func toLoadError(index int, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required_without" {
			field = "description"
		}
		return &LoadError{Index: index, Field: field, Reason: "failed " + fe.Tag()}
	}
	return &LoadError{Index: index, Reason: "invalid record", Err: err}
}
