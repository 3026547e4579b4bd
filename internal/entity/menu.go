package entity

type Menu struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Path      string    `json:"path" db:"path"`
	Icon      string    `json:"icon" db:"icon"`
	SortOrder int32     `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	IsVisible bool      `json:"is_visible" db:"is_visible"`
	SubMenus  []SubMenu `json:"sub_menus" db:"-"`
}

type SubMenu struct {
	ID        int64  `json:"id" db:"id"`
	MenuID    int64  `json:"menu_id" db:"menu_id"`
	Name      string `json:"name" db:"name"`
	Path      string `json:"path" db:"path"`
	Icon      string `json:"icon" db:"icon"`
	SortOrder int32  `json:"sort_order" db:"sort_order"`
	IsActive  bool   `json:"is_active" db:"is_active"`
	IsVisible bool   `json:"is_visible" db:"is_visible"`
}

type NavbarMenu struct {
	ID        int64         `json:"id" db:"id"`
	ParentID  *int64        `json:"parent_id" db:"parent_id"`
	Label     string        `json:"label" db:"label"`
	URL       string        `json:"url" db:"url"`
	SortOrder int32         `json:"sort_order" db:"sort_order"`
	IsActive  bool          `json:"is_active" db:"is_active"`
	IsVisible bool          `json:"is_visible" db:"is_visible"`
	Children  []*NavbarMenu `json:"children" db:"-"`
}
