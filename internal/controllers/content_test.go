package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var AboutSectionFieldDescriptions = Fields("section_type", "title", "content", "image")

func TestFirstParagraph(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "first of many", content: "<h2>Sejarah</h2><p>Pertama</p><p>Kedua</p>", want: "<p>Pertama</p>"},
		{name: "attributes and inline markup", content: `<p class="lead">Kami <b>hadir</b></p><p>x</p>`, want: `<p class="lead">Kami <b>hadir</b></p>`},
		{name: "uppercase tag", content: "<P>Satu</P><P>Dua</P>", want: "<P>Satu</P>"},
		{name: "no paragraph", content: "Teks biasa tanpa tag", want: "Teks biasa tanpa tag"},
		{name: "unclosed paragraph", content: "<div><p>Terbuka", want: "<p>Terbuka"},
		{name: "implied close by next paragraph", content: "<div><p>a<p>b</p></div>", want: "<p>a"},
		{name: "empty", content: "", want: ""},
		{name: "paragraph-like tag", content: "<pre>kode</pre>", want: "<pre>kode</pre>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstParagraph(tt.content))
		})
	}
}

func TestContentController_GetSections(t *testing.T) {
	mockDB := new(MockDB)
	controller := NewContentController(CreateTestDependencies(mockDB, new(MockRedis)))

	mockDB.On("Query", mock.Anything, sqlContains("FROM about_sections", "is_active = true"), HeroTab).Return(NewMockRows([][]interface{}{
		{entity.SectionTypeText, "Tentang Kami", "<p>Satu</p><p>Dua</p>", nil},
		{"image", "Kantor", "<p>Satu</p><p>Dua</p>", "/img/kantor.jpg"},
	}, nil, AboutSectionFieldDescriptions), nil)

	sections, err := controller.GetHero(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "<p>Satu</p>", sections[0].Content)
	assert.Equal(t, "<p>Satu</p><p>Dua</p>", sections[1].Content)
	assert.Equal(t, StringPtr("/img/kantor.jpg"), sections[1].Image)
	mockDB.AssertExpectations(t)
}

func TestContentController_GetStatistics(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		mockDB := new(MockDB)
		controller := NewContentController(CreateTestDependencies(mockDB, new(MockRedis)))
		mockDB.On("QueryRow", mock.Anything, sqlContains("FROM users", "FROM perusahaan", "FROM cabang")).
			Return(NewMockRow([]interface{}{int64(120), int64(3), int64(0)}, nil))

		stats, err := controller.GetStatistics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &entity.Statistics{TotalKaryawan: 120, TotalPerusahaan: 3, TotalCabang: 0}, stats)
	})

	t.Run("database error", func(t *testing.T) {
		mockDB := new(MockDB)
		controller := NewContentController(CreateTestDependencies(mockDB, new(MockRedis)))
		mockDB.On("QueryRow", mock.Anything, mock.Anything).Return(NewMockRow(nil, errors.New("down")))

		_, err := controller.GetStatistics(context.Background())
		assert.Error(t, err)
	})
}
