package helper

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaging(t *testing.T) {
	cases := []struct {
		query string
		want  Paging
	}{
		{"", Paging{Page: 1, PerPage: 10, Offset: 0, Limit: 10}},
		{"?page=3&per_page=20", Paging{Page: 3, PerPage: 20, Offset: 40, Limit: 20}},
		{"?page=2&limit=5", Paging{Page: 2, PerPage: 5, Offset: 5, Limit: 5}},
		{"?page=-1&per_page=500", Paging{Page: 1, PerPage: 50, Offset: 0, Limit: 50}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			var got Paging
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = ResolvePaging(c, 10, 50)
				return c.SendStatus(fiber.StatusNoContent)
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPaginationFromPage(0, 0, 0)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 20, empty.PerPage)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestJsonListFillsCountAndOptions(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonList(c, "", []string{"a", "b"}, BuildPaginationFromPage(12, 1, 2))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success    bool       `json:"success"`
		Message    string     `json:"message"`
		Data       []string   `json:"data"`
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Message)
	assert.Equal(t, 2, body.Pagination.Count)
	assert.Equal(t, 6, body.Pagination.TotalPages)
	assert.Equal(t, []int{10, 20, 50, 100}, body.Pagination.PerPageOptions)
}
