package recipe

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/pricing"
)

//go:embed schema.cue
var schemaCUE string

var (
	// ErrCanceled reports a recipe with no ingredients.
	ErrCanceled = errors.New("recipe canceled: no ingredients")

	// ErrUnsupportedFormat reports a file extension other than .yaml, .yml or .cue.
	ErrUnsupportedFormat = errors.New("unsupported recipe format")

	// ErrInvalidIngredient reports an ingredient line that fails validation.
	ErrInvalidIngredient = errors.New("invalid ingredient")
)

// Recipe is the decoded content of a recipe file.
type Recipe struct {
	Name        string `yaml:"name" json:"name"`
	Yield       int    `yaml:"yield" json:"yield"`
	Ingredients []Line `yaml:"ingredients" json:"ingredients"`
}

// Line is one ingredient as written in a recipe file.
type Line struct {
	Name     string  `yaml:"name" json:"name"`
	Pricing  string  `yaml:"pricing" json:"pricing"`
	Price    float64 `yaml:"price" json:"price"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
}

// Result is what a recipe contributes to a product.
type Result struct {
	TotalCost   float64
	YieldUnits  int
	Description string
	Ingredients []catalog.Ingredient
}

// Load reads a recipe from path. The format is chosen by extension.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".cue":
		return parseCUE(data, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func parseYAML(data []byte) (*Recipe, error) {
	// A missing yield defaults to 1; an explicit 0 is kept for Collect to reject.
	r := Recipe{Yield: 1}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("parse recipe YAML: %w", err)
	}
	return &r, nil
}

func parseCUE(data []byte, filename string) (*Recipe, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile recipe schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("parse recipe CUE: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Recipe")).Unify(v)
	if err := unified.Validate(); err != nil {
		return nil, fmt.Errorf("recipe CUE: %w", err)
	}

	var r Recipe
	if err := unified.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode recipe CUE: %w", err)
	}
	return &r, nil
}

// Collect validates the ingredient lines and totals them.
func (r *Recipe) Collect() (Result, error) {
	if len(r.Ingredients) == 0 {
		return Result{}, ErrCanceled
	}
	if len(r.Ingredients) > catalog.MaxIngredients {
		return Result{}, fmt.Errorf("recipe has %d ingredients, limit is %d", len(r.Ingredients), catalog.MaxIngredients)
	}
	if r.Yield < 1 {
		return Result{}, fmt.Errorf("recipe yield must be at least 1, got %d", r.Yield)
	}

	res := Result{
		YieldUnits:  r.Yield,
		Ingredients: make([]catalog.Ingredient, 0, len(r.Ingredients)),
	}
	var desc strings.Builder
	for i, line := range r.Ingredients {
		ing, err := line.toIngredient()
		if err != nil {
			return Result{}, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		cost := pricing.IngredientCost(ing)
		res.TotalCost += cost
		res.Ingredients = append(res.Ingredients, ing)

		// Lines that no longer fit are left out of the description but
		// still count towards the total.
		entry := describe(ing, cost)
		if desc.Len()+len(entry) <= catalog.MaxDescriptionBytes {
			desc.WriteString(entry)
		}
	}
	res.Description = desc.String()
	return res, nil
}

func (l Line) toIngredient() (catalog.Ingredient, error) {
	name := catalog.NormalizeName(l.Name)
	if name == "" {
		return catalog.Ingredient{}, fmt.Errorf("%w: name is empty", ErrInvalidIngredient)
	}

	var basis catalog.IngredientPricing
	switch l.Pricing {
	case "", "kg":
		basis = catalog.PerWeight
	case "unit":
		basis = catalog.PerUnit
	default:
		return catalog.Ingredient{}, fmt.Errorf("%w: %s: pricing must be kg or unit, got %q", ErrInvalidIngredient, name, l.Pricing)
	}

	if !(l.Price > 0) {
		return catalog.Ingredient{}, fmt.Errorf("%w: %s: price must be greater than zero", ErrInvalidIngredient, name)
	}
	if !(l.Quantity > 0) {
		return catalog.Ingredient{}, fmt.Errorf("%w: %s: quantity must be greater than zero", ErrInvalidIngredient, name)
	}

	return catalog.Ingredient{Name: name, Pricing: basis, Price: l.Price, Quantity: l.Quantity}, nil
}

func describe(ing catalog.Ingredient, cost float64) string {
	qty := strconv.FormatFloat(ing.Quantity, 'f', -1, 64)
	if ing.Pricing == catalog.PerUnit {
		return fmt.Sprintf("- %s: %s un x %s = %s\n", ing.Name, qty, pricing.FormatMoney(ing.Price), pricing.FormatMoney(cost))
	}
	return fmt.Sprintf("- %s: %sg x %s/kg = %s\n", ing.Name, qty, pricing.FormatMoney(ing.Price), pricing.FormatMoney(cost))
}
