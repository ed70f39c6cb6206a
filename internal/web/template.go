package web

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    {{if gt .Refresh 0}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
    <title>Solar Dashboard</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; background: #f3f4f6; color: #111827; margin: 0; padding: 24px; }
        header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 24px; }
        .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; }
        .card { background: #fff; border-radius: 12px; padding: 16px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
        .card .label { color: #6b7280; font-size: 14px; }
        .card .value { font-size: 24px; font-weight: 600; margin-top: 4px; }
        .charts { display: grid; grid-template-columns: 2fr 1fr; gap: 16px; margin-top: 16px; }
        .charts img { width: 100%; }
        .battery { background: #e5e7eb; border-radius: 8px; height: 16px; overflow: hidden; }
        .battery-level { background: #22c55e; height: 100%; }
        .badge { border-radius: 9999px; padding: 2px 10px; font-size: 12px; font-weight: 600; }
        .insight-item { padding: 8px 0; border-bottom: 1px solid #f3f4f6; }
        .insight-item.positive strong { color: #15803d; }
        .insight-item.warning strong { color: #b45309; }
        .empty { color: #9ca3af; }
    </style>
</head>
<body>
    <header>
        <div>
            <h1>Solar Dashboard</h1>
            <div id="currentDate">{{.Date}}</div>
        </div>
        {{if .HasFilter}}
        <form action="/filter" method="get">
            <select id="periodSelect" name="period" onchange="this.form.submit()">
                {{range .Periods}}<option value="{{.}}"{{if eq . $.Period}} selected{{end}}>{{.}}</option>{{end}}
            </select>
            <noscript><button type="submit">Apply</button></noscript>
        </form>
        {{end}}
    </header>

    <section class="cards">
        {{range .Cards}}
        <div class="card">
            <div class="label">{{.Title}}</div>
            <div class="value" id="{{.ID}}">{{.Value}}</div>
        </div>
        {{end}}
    </section>

    <section class="charts">
        {{range .Charts}}
        <div class="card">
            <div class="label">{{.Title}}</div>
            {{if .Drawn}}<img id="{{.Slot}}" src="{{.URL}}" alt="{{.Title}}">{{else}}<p class="empty">Loading...</p>{{end}}
        </div>
        {{end}}
    </section>

    {{with .EV}}
    <section class="card" style="margin-top: 16px">
        <div class="label">EV Charging</div>
        {{if .HasLevel}}<div class="battery"><div id="batteryLevel" class="battery-level" style="width: {{.Level}}%"></div></div>{{end}}
        <p><span id="batteryText">{{.Battery}}</span> <span id="evPower">{{.Power}}</span></p>
        <p id="evTimeEstimate">{{.Time}}</p>
        <p id="evCost">{{.Cost}}</p>
        {{if .HasBadge}}<span id="evStatusBadge" class="badge" style="background-color: {{.Background}}; color: {{.Color}}">{{.Badge}}</span>{{end}}
    </section>
    {{end}}

    {{if .HasInsights}}
    <section class="card" style="margin-top: 16px">
        <div class="label">Insights</div>
        <ul id="insightsList" style="list-style: none; padding: 0">
            {{range .Insights}}
            <li class="{{.Class}}">{{if .Icon}}<i class="{{.Icon}}"></i> {{end}}{{if .Title}}<strong>{{.Title}}</strong> {{end}}<span>{{.Message}}</span></li>
            {{end}}
        </ul>
    </section>
    {{end}}
</body>
</html>
`
