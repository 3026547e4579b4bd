package controllers

import (
	"context"
	"testing"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	MenuFieldDescriptions       = Fields("id", "name", "path", "icon", "sort_order", "is_active", "is_visible")
	SubMenuFieldDescriptions    = Fields("id", "menu_id", "name", "path", "icon", "sort_order", "is_active", "is_visible")
	NavbarMenuFieldDescriptions = Fields("id", "parent_id", "label", "url", "sort_order", "is_active", "is_visible")
)

func TestMenuController_GetMenus(t *testing.T) {
	tests := []struct {
		name       string
		onlyActive bool
		filtered   bool
	}{
		{name: "active only", onlyActive: true, filtered: true},
		{name: "all", onlyActive: false, filtered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDB)
			controller := NewMenuController(CreateTestDependencies(mockDB, new(MockRedis)))

			matchFilter := func(table string) interface{} {
				return mock.MatchedBy(func(sql string) bool {
					return sqlHas(sql, "FROM "+table) && sqlHas(sql, "is_active = true") == tt.filtered
				})
			}

			mockDB.On("Query", mock.Anything, matchFilter("menus")).Return(NewMockRows([][]interface{}{
				{int64(1), "Dashboard", "/dashboard", "home", int32(1), true, true},
				{int64(2), "Absensi", "/absensi", "clock", int32(2), true, true},
			}, nil, MenuFieldDescriptions), nil)
			mockDB.On("Query", mock.Anything, matchFilter("sub_menus")).Return(NewMockRows([][]interface{}{
				{int64(10), int64(2), "Riwayat", "/absensi/riwayat", "list", int32(1), true, true},
				{int64(11), int64(99), "Orphan", "/x", "", int32(1), true, true},
			}, nil, SubMenuFieldDescriptions), nil)

			menus, err := controller.GetMenus(context.Background(), tt.onlyActive)
			require.NoError(t, err)
			require.Len(t, menus, 2)
			assert.NotNil(t, menus[0].SubMenus)
			assert.Empty(t, menus[0].SubMenus)
			require.Len(t, menus[1].SubMenus, 1)
			assert.Equal(t, "Riwayat", menus[1].SubMenus[0].Name)
			mockDB.AssertExpectations(t)
		})
	}
}

func TestBuildNavbarTree(t *testing.T) {
	items := []*entity.NavbarMenu{
		{ID: 1, Label: "Beranda"},
		{ID: 2, Label: "Tentang"},
		{ID: 3, ParentID: Int64Ptr(2), Label: "Visi Misi"},
		{ID: 4, ParentID: Int64Ptr(3), Label: "Detail"},
		{ID: 5, ParentID: Int64Ptr(42), Label: "Orphan"},
		{ID: 6, ParentID: Int64Ptr(6), Label: "Self"},
	}

	roots := buildNavbarTree(items)
	require.Len(t, roots, 2)
	assert.Equal(t, "Beranda", roots[0].Label)
	assert.Empty(t, roots[0].Children)
	assert.NotNil(t, roots[0].Children)

	require.Len(t, roots[1].Children, 1)
	assert.Equal(t, "Visi Misi", roots[1].Children[0].Label)
	require.Len(t, roots[1].Children[0].Children, 1)
	assert.Equal(t, "Detail", roots[1].Children[0].Children[0].Label)
}

func TestMenuController_GetNavbarTree(t *testing.T) {
	mockDB := new(MockDB)
	controller := NewMenuController(CreateTestDependencies(mockDB, new(MockRedis)))

	mockDB.On("Query", mock.Anything, sqlContains("FROM navbar_menus", "is_active = true")).Return(NewMockRows([][]interface{}{
		{int64(1), nil, "Beranda", "/", int32(1), true, true},
		{int64(2), int64(1), "Berita", "/berita", int32(2), true, true},
	}, nil, NavbarMenuFieldDescriptions), nil)

	tree, err := controller.GetNavbarTree(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "/berita", tree[0].Children[0].URL)
}
