package goadmin

import (
	"context"
	"errors"

	activitypkg "github.com/goliatone/go-designer/pkg/activity"
	designerpkg "github.com/goliatone/go-designer/pkg/designer"
)

// MenuBuilder ensures designer entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures designer link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the designer service + feature flags into an admin shell.
type Config struct {
	EnableDesigner bool
	MenuCode       string
	MenuBuilder    MenuBuilder
	// Service is built from the activity settings below when nil.
	Service        *designerpkg.Service
	MenuItems      []MenuItem
	ActivityHooks  activitypkg.Hooks
	ActivityConfig activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// DefaultMenuItems links the page designer and the workflow editor.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Label: "Page Designer", Route: "admin.designer.canvas", Icon: "layout", Position: 10},
		{Label: "Workflows", Route: "admin.designer.workflow", Icon: "git-branch", Position: 20},
	}
}

// New creates an Admin helper that can seed designer menus.
func New(cfg Config) (*Admin, error) {
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if len(cfg.MenuItems) == 0 {
		cfg.MenuItems = DefaultMenuItems()
	}
	for _, item := range cfg.MenuItems {
		if item.Label == "" || item.Route == "" {
			return nil, errors.New("goadmin: menu items need a label and a route")
		}
	}
	if cfg.EnableDesigner && cfg.Service == nil {
		cfg.Service = designerpkg.NewService(designerpkg.Options{
			ActivityHooks:  cfg.ActivityHooks,
			ActivityConfig: cfg.ActivityConfig,
		})
	}
	return &Admin{cfg: cfg}, nil
}

// Designer exposes the configured designer service when enabled.
func (a *Admin) Designer() *designerpkg.Service {
	if !a.cfg.EnableDesigner {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries when designer support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDesigner || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.cfg.MenuItems {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return err
		}
	}
	return nil
}
