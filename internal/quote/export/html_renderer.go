package export

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
)

const quoteHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Quote {{.Document.Number}}</title>
  <style>
    :root {
      --primary: {{.Company.PrimaryColor}};
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
      -webkit-font-smoothing: antialiased;
    }
    .quote-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header-left h1 {
      margin: 0;
      font-size: 24px;
      font-weight: 700;
      color: var(--primary);
    }
    .header-right {
      text-align: right;
      font-weight: 600;
      color: #8792a2;
      font-size: 16px;
    }
    .meta-grid {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .col { flex: 1; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value {
      font-size: 14px;
      line-height: 1.5;
      color: #1a1f36;
    }
    .amount-section { margin-bottom: 40px; }
    .amount-large {
      font-size: 32px;
      font-weight: 700;
      color: #1a1f36;
      margin-bottom: 4px;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 30px;
    }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    td {
      padding: 12px 0;
      border-bottom: 1px solid #e3e8ee;
      font-size: 14px;
      color: #1a1f36;
      vertical-align: top;
    }
    .td-right { text-align: right; }
    .item-title { font-weight: 600; margin-bottom: 2px; }
    .item-sub { font-size: 12px; color: #697386; }
    .totals {
      width: 100%;
      display: flex;
      flex-direction: column;
      align-items: flex-end;
    }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 280px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-label { color: #697386; }
    .total-value { color: #1a1f36; text-align: right; font-weight: 500; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
      color: #1a1f36;
    }
    .footer {
      margin-top: 60px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 20px;
    }
  </style>
</head>
<body>
  <div class="quote-card">
    <div class="header">
      <div class="header-left">
        <h1>Quote</h1>
        <div class="label" style="margin-top: 12px;">Quote number</div>
        <div class="value">{{.Document.Number}} &middot; v{{.Document.Version}}</div>
      </div>
      <div class="header-right">{{.Company.Name}}</div>
    </div>

    <div class="meta-grid">
      <div class="col">
        <div class="label">Prepared for</div>
        <div class="value">
          <strong>{{.Customer.Name}}</strong><br>
          {{if .Customer.Email}}{{.Customer.Email}}<br>{{end}}
          {{if .Customer.Phone}}{{.Customer.Phone}}<br>{{end}}
          {{if .Customer.SiteAddress}}{{.Customer.SiteAddress}}{{end}}
        </div>
      </div>
      <div class="col" style="flex: 0 0 200px;">
        <div class="label">Date issued</div>
        <div class="value">{{formatDate .Document.IssuedAt}}</div>
        <div class="label" style="margin-top: 16px;">Status</div>
        <div class="value">{{.Document.Status}}</div>
      </div>
    </div>

    <div class="amount-section">
      <div class="amount-large">{{formatMoney .Totals.GrandTotal}}</div>
      <div class="value" style="color: #697386;">quoted total</div>
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 45%;">Item</th>
          <th class="td-right">Qty</th>
          <th class="td-right">Unit</th>
          <th class="td-right">Unit Price</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Lines}}
        <tr>
          <td>
            <div class="item-title">{{.Description}}</div>
            <div class="item-sub">{{.Category}}{{if .SKU}} &middot; {{.SKU}}{{end}}</div>
          </td>
          <td class="td-right">{{formatQuantity .Quantity}}</td>
          <td class="td-right">{{.UnitOfMeasure}}</td>
          <td class="td-right">{{formatMoney .UnitPrice}}</td>
          <td class="td-right" style="font-weight: 500;">{{formatMoney .TotalPrice}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Materials</span>
        <span class="total-value">{{formatMoney .Totals.Materials}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Labor</span>
        <span class="total-value">{{formatMoney .Totals.Labor}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span class="total-value">{{formatMoney .Totals.Subtotal}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Contingency</span>
        <span class="total-value">{{formatMoney .Totals.Contingency}}</span>
      </div>
      {{if not .Totals.Tax.IsZero}}
      <div class="total-row">
        <span class="total-label">Tax</span>
        <span class="total-value">{{formatMoney .Totals.Tax}}</span>
      </div>
      {{end}}
      <div class="total-row total-final">
        <span class="total-label" style="color: #1a1f36;">Total</span>
        <span class="total-value">{{formatMoney .Totals.GrandTotal}}</span>
      </div>
    </div>

    {{if .Company.FooterNotes}}
    <div class="footer">{{.Company.FooterNotes}}</div>
    {{end}}
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDate":     formatDate,
		"formatQuantity": formatQuantity,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("quote").Funcs(funcs).Parse(quoteHTMLTemplate)),
	}
}

func (r *HTMLRenderer) Render(input RenderInput) (string, error) {
	input.Company.PrimaryColor = sanitizeColor(input.Company.PrimaryColor)
	if input.Company.Name == "" {
		input.Company.Name = "Quote"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return "#111827"
}
