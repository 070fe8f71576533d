package web

import "html/template"

// The pages share one dark layout: a sticky header plus a column of cards.
// All dynamic values go through html/template so names are escaped the same
// way everywhere.

const layoutHead = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
        :root {
            --bg: #0f172a;
            --panel: #111827;
            --muted: #9ca3af;
            --text: #e5e7eb;
            --accent: #22c55e;
            --accent2: #3b82f6;
            --danger: #ef4444;
            --border: #1f2937;
        }
        * { box-sizing: border-box; }
        body { margin:0; background: var(--bg); color: var(--text); font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial; }
        header { padding: 16px 24px; border-bottom: 1px solid var(--border); background: linear-gradient(180deg, #0b1220, #0f172a); position: sticky; top: 0; }
        h1 { margin: 0; font-size: 24px; letter-spacing: .5px; }
        main { max-width: 1000px; margin: 24px auto; padding: 0 16px 48px; }
        .card { background: var(--panel); border: 1px solid var(--border); border-radius: 16px; padding: 16px; margin-bottom: 16px; box-shadow: 0 10px 30px rgba(0,0,0,0.25); }
        table { border-collapse: collapse; width: 100%; margin-top: 8px; }
        th, td { border-bottom: 1px solid var(--border); padding: 10px 8px; text-align: left; }
        th { color: var(--muted); font-weight: 600; text-transform: uppercase; font-size: 12px; letter-spacing: .08em; }
        .row { display: flex; gap: 12px; flex-wrap: wrap; }
        .row > * { flex: 1 1 240px; }
        input, select { width: 100%; padding: 10px 12px; background: #0b1220; color: var(--text); border: 1px solid var(--border); border-radius: 10px; }
        button { cursor: pointer; padding: 10px 14px; border-radius: 10px; border: 1px solid var(--border); color: var(--text); background: #0b1220; }
        .btn-primary { background: var(--accent2); border-color: #1d4ed8; }
        .btn-accept { background: var(--accent); border-color: #16a34a; }
        .btn-decline { background: var(--danger); border-color: #b91c1c; }
        .badge { display:inline-block; padding: 4px 8px; border-radius: 999px; font-size: 12px; }
        .satisfied { background: rgba(34,197,94,.15); color: #86efac; }
        .unsatisfied { background: rgba(239,68,68,.15); color: #fca5a5; }
        .undecided { background: rgba(148,163,184,.15); color: #cbd5e1; }
        .muted { color: var(--muted); }
        .offer { display:flex; align-items:center; justify-content:space-between; gap:8px; padding:8px 0; border-bottom:1px solid var(--border); }
        .grid-2 { display:grid; grid-template-columns: 1fr 1fr; gap: 16px; }
        @media (max-width: 720px) { .grid-2 { grid-template-columns: 1fr; } }
    </style>
</head>
<body>
    <header><h1>{{.Title}}</h1></header>
    <main>
`

const layoutFoot = `    </main>
</body>
</html>
`

const chooserBody = `<div class="card">
    <p class="muted">Total rent: <strong>{{.TotalRent}}</strong> &bull; Participants: <strong>{{.ParticipantCount}}</strong></p>
    <form method="get" action="/choose" class="row">
        <select name="user">
        {{range .Available}}<option value="{{.}}">{{.}}</option>
        {{else}}<option disabled>(no names available)</option>
        {{end}}</select>
        <button class="btn-primary" type="submit">Join session</button>
    </form>
</div>
`

const dashboardBody = `<div class="card">
    <p class="muted">You are logged in as <strong>{{.User}}</strong> &bull; Total rent: <strong>{{.TotalRent}}</strong></p>
    <table>
        <thead><tr><th>Person</th><th>Room</th><th>Price</th><th>Status</th></tr></thead>
        <tbody>
        {{range .Roster}}<tr>
            <td>{{.Person}}</td>
            <td>{{.Unit}}</td>
            <td>{{.Price}}</td>
            <td><span class="badge {{.State}}">{{.State}}</span></td>
        </tr>
        {{end}}</tbody>
    </table>
</div>
<div class="card">
    <h3>Update your satisfaction</h3>
    <form method="post" action="/set_state" class="row">
        <select name="state">
            <option value="satisfied">satisfied</option>
            <option value="unsatisfied">unsatisfied</option>
        </select>
        <button class="btn-primary" type="submit">Save</button>
    </form>
</div>
<div class="card">
    <h3>Propose a room swap</h3>
    <form method="post" action="/propose_swap">
        <div class="grid-2">
            <div><label class="muted">Target user</label>
                <select name="target">
                {{range .Others}}<option value="{{.}}">{{.}}</option>
                {{else}}<option disabled>(no one available)</option>
                {{end}}</select>
            </div>
            <div><label class="muted">Offer price</label>
                <input type="number" name="price" step="0.01" min="0" placeholder="0 = target's current">
            </div>
        </div>
        <div style="margin-top:12px"><button class="btn-primary" type="submit">Send offer</button></div>
    </form>
</div>
{{if .Incoming}}<div class="card">
    <h3>Pending offers for you</h3>
    {{range .Incoming}}<div class="offer">
        <div><strong>{{.Proposer}}</strong> offers <strong>{{.Price}}</strong> for your room.</div>
        <form method="post" action="/respond_swap" style="display:flex; gap:8px;">
            <input type="hidden" name="proposer" value="{{.Proposer}}">
            <button name="action" value="accept" class="btn-accept" type="submit">Accept</button>
            <button name="action" value="decline" class="btn-decline" type="submit">Decline</button>
        </form>
    </div>
    {{end}}</div>
{{end}}{{if .Book}}<div class="card">
    <h3>Pending offers (order book)</h3>
    <table>
        <thead><tr><th>Proposer</th><th>Proposer Unit</th><th>Target</th><th>Target Unit</th><th>Offered Price</th></tr></thead>
        <tbody>
        {{range .Book}}<tr>
            <td>{{.Proposer}}</td>
            <td>{{.ProposerUnit}}</td>
            <td>{{.Target}}</td>
            <td>{{.TargetUnit}}</td>
            <td>{{.Price}}</td>
        </tr>
        {{end}}</tbody>
    </table>
</div>
{{end}}`

const errorBody = `<div class="card">
    <p>{{.Message}}</p>
    <p><a href="/">Return to home</a></p>
</div>
`

var (
	chooserTmpl   = template.Must(template.New("chooser").Parse(layoutHead + chooserBody + layoutFoot))
	dashboardTmpl = template.Must(template.New("dashboard").Parse(layoutHead + dashboardBody + layoutFoot))
	errorTmpl     = template.Must(template.New("error").Parse(layoutHead + errorBody + layoutFoot))
)

type chooserView struct {
	Title            string
	TotalRent        string
	ParticipantCount int
	Available        []string
}

type rosterRow struct {
	Person string
	Unit   string
	Price  string
	State  string
}

type incomingOffer struct {
	Proposer string
	Price    string
}

type bookRow struct {
	Proposer     string
	ProposerUnit string
	Target       string
	TargetUnit   string
	Price        string
}

type dashboardView struct {
	Title     string
	User      string
	TotalRent string
	Roster    []rosterRow
	Others    []string
	Incoming  []incomingOffer
	Book      []bookRow
}

type errorView struct {
	Title   string
	Message string
}
