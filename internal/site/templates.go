package site

import (
	"fmt"
	"html/template"
)

func parseTemplates() (*template.Template, error) {
	tmpl := template.New("site")
	for name, text := range map[string]string{
		"page":      pageTemplate,
		"workspace": workspaceTemplate,
		"panel":     panelTemplate,
		"notice":    noticeTemplate,
		"editor":    editorTemplate,
		"diagram":   diagramTemplate,
		"scenarios": scenariosTemplate,
		"code":      codeTemplate,
	} {
		if _, err := tmpl.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
	}
	return tmpl, nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>specstudio</title>
<style>` + baseCSS + `</style>
<style>{{.CSS}}</style>
<script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
</head>
<body>
<header class="topbar"><span class="brand">specstudio</span></header>
<div id="workspace">{{template "workspace" .Page}}</div>
<script src="/static/app.js"></script>
</body>
</html>`

const workspaceTemplate = `<nav class="nav">{{range .Nav}}<a href="/ui/panels/{{.Panel}}" data-panel="{{.Panel}}" class="nav-link{{if .Active}} active{{end}}{{if .Disabled}} disabled{{end}}"{{if .Disabled}} aria-disabled="true"{{end}}>{{.Title}}</a>{{end}}</nav>
<main>{{range .Panels}}{{template "panel" .}}{{end}}</main>`

const panelTemplate = `<section id="panel-{{.Panel}}" class="panel"{{if not .Active}} hidden{{end}}{{if .Pending}} data-pending="{{.Panel}}"{{end}}>
<h2>{{.Title}}</h2>
{{with .Notice}}{{template "notice" .}}{{end}}
{{with .Editor}}{{template "editor" .}}{{end}}
{{with .Diagram}}{{template "diagram" .}}{{end}}
{{with .Scenarios}}{{template "scenarios" .}}{{end}}
{{with .Code}}{{template "code" .}}{{end}}
</section>`

const noticeTemplate = `<div class="alert alert-{{.Level}}" role="alert">{{.Text}}</div>`

const editorTemplate = `<div class="editor">
<form id="editor-form" method="post" action="/ui/submit">
<textarea id="markdown-input" name="markdown" rows="28" spellcheck="false"{{if .Focus}} autofocus{{end}}>{{.Text}}</textarea>
<button type="submit" id="submit-btn"{{if .Busy}} disabled{{end}}>{{if .Busy}}Processing...{{else}}Process Specification{{end}}</button>
</form>
<div id="markdown-preview" class="preview">{{.Preview}}</div>
</div>`

const diagramTemplate = `<div id="{{.Container}}" class="diagram-container" data-diagram>{{.Markup}}</div>
<details class="diagram-source"><summary>Mermaid source</summary><pre>{{.Source}}</pre></details>`

const scenariosTemplate = `{{with .Overview}}<div class="overview">{{template "diagram" .}}</div>{{end}}
<form id="scenario-form" method="post" action="/ui/scenario">
<select id="use-case-select" name="scenario_id">{{range .Options}}<option value="{{.ID}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
<noscript><button type="submit">Show</button></noscript>
</form>
{{with .Detail}}<article class="use-case-details">
<h3>{{.ID}}: {{.Name}}</h3>
{{with .Description}}<p>{{.}}</p>{{end}}
{{with .Actors}}<h4>Actors</h4><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{with .Preconditions}}<h4>Preconditions</h4><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{with .Flow}}<h4>Main Flow</h4><ol>{{range .}}<li>{{.}}</li>{{end}}</ol>{{end}}
{{with .Postconditions}}<h4>Postconditions</h4><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
</article>{{end}}
<div class="sequence"{{if .DiagramBusy}} aria-busy="true"{{end}}>
{{with .DiagramNotice}}{{template "notice" .}}{{end}}
{{with .Diagram}}{{template "diagram" .}}{{end}}
</div>`

const codeTemplate = `<form id="code-form" method="post" action="/ui/code">
<button type="submit"{{if .Busy}} disabled{{end}}>Regenerate Code</button>
</form>
{{range .Blocks}}<div class="code-block">
<div class="code-filename">{{.Filename}}{{with .Language}} <span class="code-lang">{{.}}</span>{{end}}</div>
{{.Highlighted}}
</div>{{end}}`

const baseCSS = `
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; color: #1f2328; background: #f6f8fa; }
.topbar { padding: 12px 24px; background: #24292f; color: #fff; }
.brand { font-weight: 600; }
.nav { display: flex; gap: 4px; padding: 8px 24px; background: #fff; border-bottom: 1px solid #d0d7de; }
.nav-link { padding: 6px 12px; border-radius: 6px; color: #1f2328; text-decoration: none; }
.nav-link.active { background: #0969da; color: #fff; }
.nav-link.disabled { color: #8c959f; pointer-events: none; }
main { padding: 16px 24px; }
.panel h2 { margin-top: 0; }
.alert { padding: 10px 14px; border-radius: 6px; margin-bottom: 12px; border: 1px solid transparent; }
.alert-info { background: #ddf4ff; border-color: #54aeff; }
.alert-success { background: #dafbe1; border-color: #4ac26b; }
.alert-warning { background: #fff8c5; border-color: #d4a72c; }
.alert-danger { background: #ffebe9; border-color: #ff8182; }
.editor { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
#markdown-input { width: 100%; font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 13px; }
.preview { background: #fff; padding: 12px; border: 1px solid #d0d7de; border-radius: 6px; overflow: auto; }
.diagram-container { background: #fff; padding: 12px; border: 1px solid #d0d7de; border-radius: 6px; overflow: auto; }
.diagram-source pre { background: #fff; padding: 8px; overflow: auto; }
.use-case-details { background: #fff; padding: 12px; margin: 12px 0; border: 1px solid #d0d7de; border-radius: 6px; }
.sequence[aria-busy="true"] { opacity: .6; }
.code-block { margin: 12px 0; border: 1px solid #d0d7de; border-radius: 6px; background: #fff; }
.code-filename { padding: 6px 12px; border-bottom: 1px solid #d0d7de; font-family: ui-monospace, monospace; }
.code-lang { color: #57606a; font-size: 12px; }
.code-block pre { margin: 0; padding: 12px; overflow: auto; }
`

// appScript swaps server-rendered fragments into the page and keeps the
// editor channel open. Mermaid runs only on the containers of the visible
// panel, one container per call.
const appScript = `(function () {
  'use strict';

  mermaid.initialize({ startOnLoad: false, securityLevel: 'strict' });

  var workspace = document.getElementById('workspace');
  var socket = null;

  function escapeHTML(s) {
    var d = document.createElement('div');
    d.textContent = s;
    return d.innerHTML;
  }

  function drawDiagrams() {
    var panel = workspace.querySelector('.panel:not([hidden])');
    if (!panel) return;
    panel.querySelectorAll('[data-diagram]').forEach(function (container) {
      var nodes = container.querySelectorAll('.mermaid');
      if (!nodes.length) return;
      mermaid.run({ nodes: nodes }).catch(function (err) {
        container.insertAdjacentHTML('beforeend',
          '<div class="alert alert-danger">Diagram error: ' + escapeHTML(String((err && err.message) || err)) + '</div>');
      });
    });
  }

  // Only the latest request may swap; older answers are dropped.
  var generation = 0;

  function swap(html) {
    workspace.innerHTML = html;
    bind();
    drawDiagrams();
    var pending = workspace.querySelector('.panel:not([hidden])[data-pending]');
    if (pending) follow('/ui/await/' + pending.getAttribute('data-pending'));
  }

  function fail(err) {
    var panel = workspace.querySelector('.panel:not([hidden])');
    if (panel) panel.insertAdjacentHTML('afterbegin',
      '<div class="alert alert-danger">' + escapeHTML(err.message) + '</div>');
  }

  function send(method, url, body, gen) {
    return fetch(url, {
      method: method,
      body: body,
      credentials: 'same-origin',
      headers: { 'X-Specstudio-Fragment': '1' }
    }).then(function (res) {
      return res.text().then(function (text) {
        if (!res.ok) throw new Error(text || ('status ' + res.status));
        return text;
      });
    }).then(function (html) {
      if (gen === generation) swap(html);
    }).catch(function (err) {
      if (gen === generation) fail(err);
    });
  }

  function request(method, url, body) {
    generation++;
    return send(method, url, body, generation);
  }

  // follow keeps the generation of the request that produced the busy view.
  function follow(url) {
    return send('GET', url, null, generation);
  }

  function busy(button, label) {
    if (!button) return;
    button.disabled = true;
    button.textContent = label;
  }

  function formBody(form) {
    return new URLSearchParams(new FormData(form));
  }

  function pushText(text) {
    if (socket && socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify({ type: 'text', text: text }));
      return;
    }
    var body = new URLSearchParams();
    body.set('markdown', text);
    fetch('/ui/editor', { method: 'POST', body: body, credentials: 'same-origin', headers: { 'X-Specstudio-Fragment': '1' } });
  }

  function bind() {
    workspace.querySelectorAll('.nav-link').forEach(function (link) {
      link.addEventListener('click', function (e) {
        e.preventDefault();
        if (link.getAttribute('aria-disabled') === 'true') return;
        var target = document.getElementById('panel-' + link.getAttribute('data-panel'));
        if (target) {
          workspace.querySelectorAll('.panel').forEach(function (p) { p.hidden = p !== target; });
          workspace.querySelectorAll('.nav-link').forEach(function (l) { l.classList.toggle('active', l === link); });
        }
        request('GET', link.getAttribute('href'));
      });
    });

    var editorForm = document.getElementById('editor-form');
    if (editorForm) {
      editorForm.addEventListener('submit', function (e) {
        e.preventDefault();
        busy(document.getElementById('submit-btn'), 'Processing...');
        request('POST', editorForm.action, formBody(editorForm));
      });
    }

    var input = document.getElementById('markdown-input');
    if (input) {
      input.addEventListener('input', function () { pushText(input.value); });
      if (input.autofocus) input.focus();
    }

    var select = document.getElementById('use-case-select');
    if (select) {
      select.addEventListener('change', function () {
        var seq = workspace.querySelector('.sequence');
        var details = workspace.querySelector('.use-case-details');
        if (details && select.value) details.remove();
        if (seq && select.value) {
          seq.setAttribute('aria-busy', 'true');
          seq.innerHTML = '<div class="alert alert-info">Loading...</div>';
        }
        request('POST', '/ui/scenario', formBody(document.getElementById('scenario-form')));
      });
    }

    var codeForm = document.getElementById('code-form');
    if (codeForm) {
      codeForm.addEventListener('submit', function (e) {
        e.preventDefault();
        busy(codeForm.querySelector('button'), 'Generating...');
        request('POST', codeForm.action, null);
      });
    }
  }

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    socket = new WebSocket(proto + '//' + location.host + '/ws/editor');
    socket.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === 'preview') {
        var preview = document.getElementById('markdown-preview');
        if (preview) preview.innerHTML = msg.html;
      }
    };
    socket.onclose = function () {
      socket = null;
      setTimeout(connect, 2000);
    };
  }

  bind();
  drawDiagrams();
  connect();
})();
`
