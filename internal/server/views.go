package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const baseLayout = "layouts/base"

func newViewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(template.FuncMap{
		"linebreaksbr": linebreaksbr,
		"date":         formatDate,
		"thumbnail":    thumbnailURL,
		"media":        mediaURL,
		"truncate":     truncateRunes,
		"derefUint":    derefUint,
	})
	if err := engine.Load(); err != nil {
		return nil, err
	}
	return engine, nil
}

// page builds the template binding shared by every page.
func (s *Server) page(c *fiber.Ctx, title string, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	uid, ok := middleware.CurrentUserID(c)
	data["Authenticated"] = ok
	data["CurrentUserID"] = uid
	data["CurrentUsername"], _ = c.Locals("username").(string)
	data["Path"] = c.Path()
	return data
}

// renderBytes executes name inside the base layout.
func (s *Server) renderBytes(name string, data fiber.Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.views.Render(&buf, name, data, baseLayout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	body, err := s.renderBytes(name, data)
	if err != nil {
		return err
	}
	return sendHTML(c, status, body)
}

func sendHTML(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}

func linebreaksbr(text string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func mediaURL(name string) string {
	if name == "" {
		return ""
	}
	return "/media/" + name
}

func thumbnailURL(name string) string {
	return mediaURL(service.ThumbnailPath(name))
}

func truncateRunes(n int, text string) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "…"
}

func derefUint(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
