package controllers

import (
	"context"
	"log/slog"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/jackc/pgx/v5"
)

type MenuController struct {
	deps *Dependens
}

func NewMenuController(deps *Dependens) *MenuController {
	return &MenuController{
		deps: deps,
	}
}

// GetMenus returns the sidebar menus with their sub-menus. With onlyActive
// set, inactive or hidden entries are left out.
func (c *MenuController) GetMenus(ctx context.Context, onlyActive bool) ([]entity.Menu, error) {
	where := ""
	if onlyActive {
		where = " WHERE is_active = true AND is_visible = true"
	}

	rows, err := c.deps.DB.Query(ctx,
		"SELECT id, name, path, icon, sort_order, is_active, is_visible FROM menus"+where+" ORDER BY sort_order ASC, id ASC")
	if err != nil {
		c.deps.Logger.Error("Error querying menus", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	menus, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Menu])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	subRows, err := c.deps.DB.Query(ctx,
		"SELECT id, menu_id, name, path, icon, sort_order, is_active, is_visible FROM sub_menus"+where+" ORDER BY sort_order ASC, id ASC")
	if err != nil {
		c.deps.Logger.Error("Error querying sub menus", slog.String("error", err.Error()))
		return nil, err
	}
	defer subRows.Close()

	subMenus, err := pgx.CollectRows(subRows, pgx.RowToStructByName[entity.SubMenu])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return attachSubMenus(menus, subMenus), nil
}

func attachSubMenus(menus []entity.Menu, subMenus []entity.SubMenu) []entity.Menu {
	index := make(map[int64]int, len(menus))
	for i := range menus {
		menus[i].SubMenus = []entity.SubMenu{}
		index[menus[i].ID] = i
	}

	for _, s := range subMenus {
		if i, ok := index[s.MenuID]; ok {
			menus[i].SubMenus = append(menus[i].SubMenus, s)
		}
	}

	return menus
}

// GetNavbarTree returns the navbar entries as a tree of roots. Entries whose
// parent is not part of the result are dropped.
func (c *MenuController) GetNavbarTree(ctx context.Context, onlyActive bool) ([]*entity.NavbarMenu, error) {
	query := "SELECT id, parent_id, label, url, sort_order, is_active, is_visible FROM navbar_menus"
	if onlyActive {
		query += " WHERE is_active = true AND is_visible = true"
	}
	query += " ORDER BY sort_order ASC, id ASC"

	rows, err := c.deps.DB.Query(ctx, query)
	if err != nil {
		c.deps.Logger.Error("Error querying navbar menus", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entity.NavbarMenu])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return buildNavbarTree(items), nil
}

func buildNavbarTree(items []*entity.NavbarMenu) []*entity.NavbarMenu {
	byID := make(map[int64]*entity.NavbarMenu, len(items))
	for _, item := range items {
		item.Children = []*entity.NavbarMenu{}
		byID[item.ID] = item
	}

	roots := []*entity.NavbarMenu{}
	for _, item := range items {
		if item.ParentID == nil {
			roots = append(roots, item)
			continue
		}

		if parent, ok := byID[*item.ParentID]; ok && parent != item {
			parent.Children = append(parent.Children, item)
		}
	}

	return roots
}
