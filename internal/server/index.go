package server

import (
	"html/template"
	"net/http"
)

type indexData struct {
	Title      string
	Dataset    string
	Columns    []string
	Continuous []string
	GroupField string
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; max-width: 960px; }
section { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin-bottom: 1.5rem; }
img { max-width: 100%; display: block; margin-top: 1rem; }
.message { color: #b00020; white-space: pre-wrap; min-height: 1.2em; }
.checks label { display: inline-block; margin-right: 1rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Dataset: <code>{{.Dataset}}</code></p>

<section id="scatter">
  <h2>Scatterplot</h2>
  <p>Explore the relation between two variables.</p>
  <label>X-axis variable <select name="x">{{range .Columns}}<option>{{.}}</option>{{end}}</select></label>
  <label>Y-axis variable <select name="y">{{range .Columns}}<option>{{.}}</option>{{end}}</select></label>
  <button data-kind="scatter">Generate Scatterplot</button>
  <div class="message"></div><img alt="">
</section>

<section id="errorbar">
  <h2>Mean by {{.GroupField}}</h2>
  <label>Variable <select name="field">{{range .Continuous}}<option>{{.}}</option>{{end}}</select></label>
  <button data-kind="errorbar">Generate Line Plot</button>
  <div class="message"></div><img alt="">
</section>

<section id="heatmap">
  <h2>Heatmap</h2>
  <p>Select two or more continuous variables to correlate.</p>
  <div class="checks">{{range .Columns}}<label><input type="checkbox" name="fields" value="{{.}}"> {{.}}</label>{{end}}</div>
  <button data-kind="heatmap">Generate Heatmap</button>
  <div class="message"></div><img alt="">
</section>

<script>
function payload(kind, sec) {
  if (kind === "scatter") {
    return {x: sec.querySelector("[name=x]").value, y: sec.querySelector("[name=y]").value};
  }
  if (kind === "errorbar") {
    return {field: sec.querySelector("[name=field]").value};
  }
  return {fields: Array.from(sec.querySelectorAll("[name=fields]:checked")).map(function (c) { return c.value; })};
}
document.querySelectorAll("button[data-kind]").forEach(function (btn) {
  btn.addEventListener("click", function () {
    var kind = btn.dataset.kind, sec = document.getElementById(kind);
    var img = sec.querySelector("img"), msg = sec.querySelector(".message");
    fetch("/api/charts/" + kind, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(payload(kind, sec))})
      .then(function (r) { return r.json(); })
      .then(function (res) {
        msg.textContent = res.message || "";
        if (res.path) { img.src = res.image; } else { img.removeAttribute("src"); }
      })
      .catch(function (err) { msg.textContent = String(err); img.removeAttribute("src"); });
  });
});
</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	ds := s.renderer.Dataset()
	data := indexData{
		Title:      "Obesity Dataset Explorer",
		Dataset:    ds.Name(),
		Columns:    ds.Columns(),
		Continuous: s.renderer.Schema().Continuous,
		GroupField: s.renderer.Schema().GroupField,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.WithError(err).Error("render index")
	}
}
