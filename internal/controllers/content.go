package controllers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/jackc/pgx/v5"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const HeroTab = "hero"

type ContentController struct {
	deps *Dependens
}

func NewContentController(deps *Dependens) *ContentController {
	return &ContentController{
		deps: deps,
	}
}

// GetSections returns the active about sections of a tab. Text sections are
// trimmed to their first paragraph.
func (c *ContentController) GetSections(ctx context.Context, tab string) ([]entity.AboutSection, error) {
	query := `SELECT section_type, title, content, image
              FROM about_sections
              WHERE tab_id = $1 AND is_active = true
              ORDER BY sort_order ASC, id ASC`

	rows, err := c.deps.DB.Query(ctx, query, tab)
	if err != nil {
		c.deps.Logger.Error("Error querying about sections", slog.String("tab", tab), slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	sections, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.AboutSection])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	for i := range sections {
		if sections[i].SectionType == entity.SectionTypeText {
			sections[i].Content = FirstParagraph(sections[i].Content)
		}
	}

	return sections, nil
}

func (c *ContentController) GetHero(ctx context.Context) ([]entity.AboutSection, error) {
	return c.GetSections(ctx, HeroTab)
}

func (c *ContentController) GetStatistics(ctx context.Context) (*entity.Statistics, error) {
	query := `SELECT
                (SELECT COUNT(*) FROM users WHERE status = 'active'),
                (SELECT COUNT(*) FROM perusahaan),
                (SELECT COUNT(*) FROM cabang)`

	var stats entity.Statistics
	if err := c.deps.DB.QueryRow(ctx, query).Scan(&stats.TotalKaryawan, &stats.TotalPerusahaan, &stats.TotalCabang); err != nil {
		c.deps.Logger.Error("Error querying statistics", slog.String("error", err.Error()))
		return nil, err
	}

	return &stats, nil
}

// FirstParagraph returns the raw markup of the first <p> element in content,
// from its opening tag through its close. A second <p> start tag closes the
// first implicitly. Content without a paragraph is returned unchanged; an
// unclosed paragraph runs to the end.
func FirstParagraph(content string) string {
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		b      strings.Builder
		inside bool
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) && inside {
				return b.String()
			}

			return content
		}

		raw := string(z.Raw())
		name, _ := z.TagName()
		isP := atom.Lookup(name) == atom.P

		switch {
		case tt == html.StartTagToken && isP:
			if inside {
				return b.String()
			}
			inside = true
		case !inside:
			continue
		}

		b.WriteString(raw)

		if tt == html.EndTagToken && isP {
			return b.String()
		}
	}
}
