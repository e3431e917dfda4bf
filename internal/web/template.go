package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/media-encoder/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		switch {
		case days > 0:
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		case h > 0:
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		case m > 0:
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"button": status.ButtonString,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Media Encoder</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.pressed { color: green; font-weight: bold; }
.released { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
#feed li { list-style: none; }
</style>
</head>
<body>
<h1>Media Encoder{{if .Live}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Encoder</h2>
<table>
<tr><th>Position</th><td id="position">{{.Position}}</td></tr>
<tr><th>Button</th><td id="button" class="{{if .Pressed}}pressed{{else}}released{{end}}">{{button .Pressed}}</td></tr>
<tr><th>Last action</th><td id="last-action">{{if .LastAction}}{{.LastAction.Description}}{{else}}none{{end}}</td></tr>
</table>

<h2>Action Counts</h2>
<table>
<tr><th>Volume up</th><td>{{.Counts.VolumeUp}}</td></tr>
<tr><th>Volume down</th><td>{{.Counts.VolumeDown}}</td></tr>
<tr><th>Next track</th><td>{{.Counts.NextTrack}}</td></tr>
<tr><th>Previous track</th><td>{{.Counts.PreviousTrack}}</td></tr>
<tr><th>Play/pause</th><td>{{.Counts.PlayPause}}</td></tr>
</table>

<h2>Device</h2>
<table>
<tr><th>Source</th><td>{{.Config.Source}}</td></tr>
<tr><th>Port</th><td>{{.Config.Port}}</td></tr>
<tr><th>Baud</th><td>{{.Config.Baud}}</td></tr>
<tr><th>Reverse</th><td>{{if .Config.Reverse}}yes{{else}}no{{end}}</td></tr>
<tr><th>Click timeout</th><td>{{.Config.ClickTimeoutMs}}ms</td></tr>
<tr><th>Lines</th><td>{{.Lines}} ({{.MalformedLines}} malformed)</td></tr>
<tr><th>Key errors</th><td>{{.SinkErrors}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
<tr><th>Keys</th><td>{{if .Config.DryRun}}dry-run{{else}}live{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Live}}
<h2>Live</h2>
<ul id="feed"></ul>
<script>
(function() {
  var dot = document.getElementById("live-dot");
  var feed = document.getElementById("feed");
  var posEl = document.getElementById("position");
  var btnEl = document.getElementById("button");
  var lastEl = document.getElementById("last-action");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "offline");
      setTimeout(connect, 5000);
    };
    ws.onmessage = function(ev) {
      try {
        var msg = JSON.parse(ev.data);
        if (msg.type !== "action") return;
        posEl.textContent = msg.data.position;
        btnEl.textContent = msg.data.button;
        btnEl.className = msg.data.button === "PRESSED" ? "pressed" : "released";
        lastEl.textContent = msg.data.description;
        var li = document.createElement("li");
        li.textContent = msg.ts + " " + msg.data.description;
        feed.insertBefore(li, feed.firstChild);
        while (feed.children.length > 20) feed.removeChild(feed.lastChild);
      } catch (e) {}
    };
  }
  connect();
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, live bool) {
	// Snapshot has an Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Live   bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Live:     live,
	}
	indexTmpl.Execute(w, data)
}
