package reporting

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/inkproof/galley/internal/models"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Georgia, serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.35rem 0.7rem; text-align: left; }
th { background: #f5f2ea; }
blockquote { border-left: 4px solid #c9a96a; margin: 1rem 0; padding: 0.2rem 1rem; background: #faf7f0; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders the markdown report as a standalone HTML page. The GFM
// extension is needed for the score tables.
func HTML(r *models.EvaluationResult) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	title := html.EscapeString("Manuscript Evaluation: " + displayName(r))
	return []byte(fmt.Sprintf(htmlShell, title, body.String())), nil
}
