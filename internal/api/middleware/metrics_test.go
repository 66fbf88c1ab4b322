package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// Статические пути не меняются
		{"/health/live", "/health/live"},
		{"/health/ready", "/health/ready"},
		{"/metrics", "/metrics"},
		{"/api/v1/auth/login", "/api/v1/auth/login"},
		{"/api/v1/categories", "/api/v1/categories"},
		{"/api/v1/categories/batch-delete", "/api/v1/categories/batch-delete"},
		{"/api/v1/download-tasks", "/api/v1/download-tasks"},

		// Динамические сегменты заменяются плейсхолдерами
		{"/api/v1/categories/cats", "/api/v1/categories/{category}"},
		{"/api/v1/categories/cats/items", "/api/v1/categories/{category}/items"},
		{"/api/v1/categories/cats/items/batch-delete", "/api/v1/categories/{category}/items/batch-delete"},
		{"/api/v1/categories/cats/items/a.png", "/api/v1/categories/{category}/items/{filename}"},
		{"/api/v1/categories/cats/items/a.png/rename", "/api/v1/categories/{category}/items/{filename}/rename"},
		{"/api/v1/categories/cats/links", "/api/v1/categories/{category}/links"},
		{"/api/v1/categories/cats/links/123e4567", "/api/v1/categories/{category}/links/{id}"},
		{"/api/v1/categories/cats/upload", "/api/v1/categories/{category}/upload"},
		{"/api/v1/download-tasks/123e4567/events", "/api/v1/download-tasks/{task_id}/events"},

		// Отдача файлов и публичная случайная выдача
		{"/files/cats/a.png", "/files/{category}/{filename}"},
		{"/files/cats/a.png/download", "/files/{category}/{filename}/download"},
		{"/cats", "/{category}"},
	}

	for _, c := range cases {
		if got := normalizePath(c.in); got != c.want {
			t.Errorf("normalizePath(%q) = %q, ожидается %q", c.in, got, c.want)
		}
	}
}
