package viewer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"regexp"

	"github.com/microcosm-cc/bluemonday"

	"github.com/starford/ankitools/internal/apperr"
	"github.com/starford/ankitools/internal/media"
	"github.com/starford/ankitools/internal/models"
)

var imgSrcRe = regexp.MustCompile(`(?i)(<img\b[^>]*?\bsrc=)(["'])([^"']+)["']`)

// RenderOptions tune the generated page.
type RenderOptions struct {
	// MediaDir rewrites local image sources to file:// URLs under this directory.
	MediaDir string
	// Sanitize filters field HTML through a user-generated-content policy.
	Sanitize bool
}

// Renderer turns a note into a self-contained HTML document.
type Renderer struct {
	mediaDir string
	policy   *bluemonday.Policy
}

// NewRenderer creates a renderer.
func NewRenderer(opts RenderOptions) *Renderer {
	r := &Renderer{mediaDir: opts.MediaDir}
	if opts.Sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

type pageData struct {
	Front  template.HTML
	Back   template.HTML
	NoteID int64
	Model  string
	Tags   []string
}

// Render builds the page for n. The note must carry Front and Back fields.
func (r *Renderer) Render(n *models.Note) ([]byte, error) {
	front, ok := n.Field("Front")
	if !ok {
		return nil, fmt.Errorf("note %d: %w: Front", n.ID, apperr.ErrMissingField)
	}
	back, ok := n.Field("Back")
	if !ok {
		return nil, fmt.Errorf("note %d: %w: Back", n.ID, apperr.ErrMissingField)
	}

	model := n.ModelName
	if model == "" {
		model = "Unknown"
	}

	data := pageData{
		Front:  r.field(front),
		Back:   r.field(back),
		NoteID: n.ID,
		Model:  model,
		Tags:   n.Tags,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("viewer: render note %d: %w", n.ID, err)
	}
	return buf.Bytes(), nil
}

// field applies the content pipeline to one field value. Field HTML comes
// from the user's own collection and is embedded verbatim.
func (r *Renderer) field(value string) template.HTML {
	out := ExtractLatex(value)
	if r.policy != nil {
		out = r.policy.Sanitize(out)
	}
	if r.mediaDir != "" {
		out = r.resolveMedia(out)
	}
	return template.HTML(out) //nolint:gosec // trusted collection content
}

func (r *Renderer) resolveMedia(content string) string {
	return imgSrcRe.ReplaceAllStringFunc(content, func(m string) string {
		parts := imgSrcRe.FindStringSubmatch(m)
		src := parts[3]
		if media.IsExternal(src) || hasScheme(src) {
			return m
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(r.mediaDir, src))}
		return parts[1] + parts[2] + u.String() + parts[2]
	})
}

func hasScheme(src string) bool {
	u, err := url.Parse(src)
	return err == nil && u.Scheme != ""
}

var pageTmpl = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Anki Note Viewer</title>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.7/MathJax.js?config=TeX-AMS_HTML"></script>
    <script type="text/x-mathjax-config">
        MathJax.Hub.Config({
            tex2jax: {
                inlineMath: [['$', '$']],
                displayMath: [['$$', '$$']],
                processEscapes: true
            }
        });
    </script>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 2rem auto;
            padding: 0 1rem;
            background-color: #f5f5f5;
        }
        .card {
            background: white;
            border-radius: 8px;
            padding: 2rem;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        code {
            background-color: #f0f0f0;
            padding: 2px 4px;
            border-radius: 3px;
            font-family: monospace;
        }
        .card-front {
            margin-bottom: 2rem;
            padding-bottom: 1rem;
            border-bottom: 2px solid #eee;
        }
        .note-info {
            margin-top: 1rem;
            padding-top: 1rem;
            border-top: 1px solid #eee;
            font-size: 0.9em;
            color: #666;
        }
        .tag {
            display: inline-block;
            background: #e9ecef;
            padding: 2px 8px;
            border-radius: 4px;
            margin-right: 4px;
            font-size: 0.8em;
        }
    </style>
</head>
<body>
    <div class="card">
        <div class="card-front">
            <h2>Question</h2>
            {{.Front}}
        </div>
        <div class="card-back">
            <h2>Answer</h2>
            {{.Back}}
        </div>
        <div class="note-info">
            <div>Note ID: {{.NoteID}}</div>
            <div>Model: {{.Model}}</div>
            <div>Tags: {{range $i, $t := .Tags}}{{if $i}} {{end}}<span class="tag">{{$t}}</span>{{else}}<span class="tag">No tags</span>{{end}}</div>
        </div>
    </div>
    <script>
        MathJax.Hub.Queue(["Typeset", MathJax.Hub]);
    </script>
</body>
</html>
`))
