package server

import "html/template"

// pageTemplate inlines the chart so its row groups can be moved in place.
// After a toggle the page sets each row's transform from the JSON offsets,
// lets the CSS transition run, then reloads the chart to refresh the headers.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>classviz</title>
<style>
  body { font-family: sans-serif; margin: 2rem; background: #fafafa; }
  #chart { max-width: 100%; }
  #error { color: #c62828; min-height: 1.2em; }
</style>
</head>
<body>
<div id="chart">{{.}}</div>
<p id="error"></p>
<script>
const chart = document.getElementById("chart");
const errorBox = document.getElementById("error");
const settle = 800;

chart.addEventListener("click", async (ev) => {
  const header = ev.target.closest(".sort-header");
  if (!header) return;
  const res = await fetch("/sort/" + encodeURIComponent(header.dataset.column), { method: "POST" });
  const body = await res.json();
  if (!res.ok) {
    errorBox.textContent = body.message;
    return;
  }
  errorBox.textContent = "";
  for (const row of body.rows) {
    const el = document.getElementById("row-" + row.id);
    if (!el) continue;
    el.style.transform = "translate(0px, " + row.offset + "px)";
    el.dataset.rank = row.rank;
    const bg = el.querySelector(".row-bg");
    if (bg) bg.setAttribute("fill", row.striped ? "#F8F8F8" : "#FFFFFF");
  }
  setTimeout(async () => {
    const svg = await fetch("/chart.svg");
    if (svg.ok) chart.innerHTML = await svg.text();
  }, settle);
});
</script>
</body>
</html>
`))
