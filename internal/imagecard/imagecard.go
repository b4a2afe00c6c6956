package imagecard

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"outreach-crm/internal/intel"
)

// Renderer writes a shareable HTML service card for a prospect.
// Rendering is best-effort: a failure is logged and reported as false,
// never as a campaign error.
type Renderer struct {
	OutputDir string
}

func NewRenderer(staticDir string) *Renderer {
	return &Renderer{OutputDir: filepath.Join(staticDir, "generated_images")}
}

var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.CompanyName}} - Growth Plan</title>
<style>
  body { font-family: 'Segoe UI', Arial, sans-serif; background: #0f172a; color: #e2e8f0; margin: 0; padding: 40px; }
  .card { max-width: 640px; margin: 0 auto; background: #1e293b; border-radius: 16px; padding: 32px; }
  h1 { color: #38bdf8; margin-top: 0; }
  .service { background: #0f172a; border-left: 4px solid #38bdf8; border-radius: 8px; padding: 16px; margin: 12px 0; }
  .service h3 { margin: 0 0 8px 0; color: #f8fafc; }
  .service p { margin: 4px 0; font-size: 14px; color: #94a3b8; }
  .footer { margin-top: 24px; font-size: 13px; color: #64748b; text-align: center; }
</style>
</head>
<body>
<div class="card">
  <h1>Growth Plan for {{.CompanyName}}</h1>
  {{range .Services}}
  <div class="service">
    <h3>{{.ServiceName}}</h3>
    <p>{{.WhyRelevant}}</p>
    <p><strong>Expected impact:</strong> {{.ExpectedImpact}}</p>
  </div>
  {{end}}
  <div class="footer">SERP Hawk Digital Agency | Team DaPros from Mexico</div>
</div>
</body>
</html>
`))

type cardData struct {
	CompanyName string
	Services    []intel.RecommendedService
}

// Render writes the card and returns the public filename, or ok=false.
func (r *Renderer) Render(companyName string, services []intel.RecommendedService) (string, bool) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		log.Printf("Error creating image output dir: %v", err)
		return "", false
	}

	filename := fmt.Sprintf("%s_email_image.html", safeFilename(companyName))
	path := filepath.Join(r.OutputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		log.Printf("Error creating image card %s: %v", path, err)
		return "", false
	}
	defer f.Close()

	if err := cardTemplate.Execute(f, cardData{CompanyName: companyName, Services: services}); err != nil {
		log.Printf("Error rendering image card for %s: %v", companyName, err)
		return "", false
	}
	return filename, true
}

func safeFilename(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('_')
		}
	}
	s := b.String()
	if len(s) > 50 {
		s = s[:50]
	}
	if s == "" {
		s = "company"
	}
	return s
}
