package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/schema"
)

type scaffoldCmd struct {
	Type         string   `required:"" help:"Component type; normalized to PascalCase (e.g. rating-input -> RatingInput)."`
	Label        string   `required:"" help:"Palette label."`
	Category     string   `default:"custom" help:"Palette category."`
	Locale       []string `help:"Localized labels as locale=label (repeatable)."`
	Prop         []string `help:"Properties as name:kind[:label] where kind is string, number, boolean, select or array (repeatable)."`
	Event        []string `help:"Event names; normalized to onCamelCase (repeatable)."`
	ManifestPath string   `required:"" type:"path" env:"DESIGNER_CATALOG" help:"Catalog manifest YAML to create or update."`
	Maintainer   []string `help:"Maintainers recorded in the manifest."`
	Tag          []string `help:"Tags recorded in the manifest."`
	Overwrite    bool     `help:"Replace an existing entry with the same type."`
}

func (cmd *scaffoldCmd) Run() error {
	entry, err := cmd.entry()
	if err != nil {
		return err
	}
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("designctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	if err := upsertComponent(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, okStyle.Render("✓")+" Added "+entry.Definition.Type+" to "+path)
	return nil
}

func (cmd *scaffoldCmd) entry() (canvas.ManifestComponent, error) {
	typ := strcase.ToPascal(strings.TrimSpace(cmd.Type))
	if typ == "" {
		return canvas.ManifestComponent{}, errors.New("designctl: component type is required")
	}
	props, err := parseProps(cmd.Prop)
	if err != nil {
		return canvas.ManifestComponent{}, err
	}
	def := canvas.ComponentDefinition{
		Type:       typ,
		Label:      cmd.Label,
		Category:   cmd.Category,
		Properties: props,
		Events:     []canvas.EventDefinition{},
	}
	if len(cmd.Locale) > 0 {
		def.LabelLocalized = map[string]string{}
		for _, raw := range cmd.Locale {
			locale, label, ok := strings.Cut(raw, "=")
			if !ok || locale == "" {
				return canvas.ManifestComponent{}, fmt.Errorf("designctl: locale %q must be locale=label", raw)
			}
			def.LabelLocalized[strings.ToLower(locale)] = label
		}
	}
	for _, name := range cmd.Event {
		evt := eventName(name)
		def.Events = append(def.Events, canvas.EventDefinition{Name: evt, Label: evt})
	}
	return canvas.ManifestComponent{
		Definition:  def,
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}, nil
}

func parseProps(raw []string) (schema.Properties, error) {
	specs := make([]schema.Spec, 0, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("designctl: property %q must be name:kind[:label]", item)
		}
		spec := schema.Spec{Name: strcase.ToCamel(parts[0]), Type: schema.Kind(parts[1])}
		spec.Label = spec.Name
		if len(parts) == 3 && parts[2] != "" {
			spec.Label = parts[2]
		}
		specs = append(specs, spec)
	}
	return schema.FromSpecs(specs)
}

func eventName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "on") && len(name) > 2 && name[2] >= 'A' && name[2] <= 'Z' {
		return name
	}
	return strcase.ToCamel("on_" + name)
}

func upsertComponent(doc *canvas.CatalogManifest, entry canvas.ManifestComponent, overwrite bool) error {
	for idx, existing := range doc.Components {
		if existing.Definition.Type != entry.Definition.Type {
			continue
		}
		if !overwrite {
			return fmt.Errorf("designctl: manifest already defines %s (use --overwrite to replace)", entry.Definition.Type)
		}
		doc.Components[idx] = entry
		return nil
	}
	doc.Components = append(doc.Components, entry)
	sort.SliceStable(doc.Components, func(i, j int) bool {
		return doc.Components[i].Definition.Type < doc.Components[j].Definition.Type
	})
	return nil
}

func loadOrInitManifest(path string) (*canvas.CatalogManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &canvas.CatalogManifest{
				Version:    canvas.ManifestVersion,
				Components: []canvas.ManifestComponent{},
				Source:     path,
			}, nil
		}
		return nil, fmt.Errorf("designctl: stat manifest: %w", err)
	}
	return canvas.ReadManifest(path)
}

func writeManifest(path string, doc *canvas.CatalogManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("designctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	out := *doc
	out.Source = ""
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("designctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return out.Encode(file)
}
