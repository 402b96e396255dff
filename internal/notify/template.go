package notify

import (
	"bytes"
	"html/template"

	"petshop_back_end/internal/models"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
	<h2 style="color: #333;">Thanks for your order, {{.Name}}!</h2>
	<p>Order #{{.OrderID}} is {{.Status}}.</p>
	<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
		<thead>
			<tr style="background-color: #f0f0f0;">
				<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
				<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantity</th>
				<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Unit price</th>
				<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
			</tr>
		</thead>
		<tbody>
		{{range .Lines}}
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">{{.Title}}</td>
				<td style="padding: 10px; border: 1px solid #ddd;">{{.Quantity}}</td>
				<td style="padding: 10px; border: 1px solid #ddd;">{{.UnitPrice}}</td>
				<td style="padding: 10px; border: 1px solid #ddd;">{{.LineTotal}}</td>
			</tr>
		{{end}}
		</tbody>
		<tfoot>
			<tr>
				<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
				<td style="padding: 10px; font-weight: bold;">{{.Total}}</td>
			</tr>
		</tfoot>
	</table>
</div>
</body>
</html>`))

type confirmationLine struct {
	Title     string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type confirmationData struct {
	Name    string
	OrderID int64
	Status  string
	Lines   []confirmationLine
	Total   string
}

// RenderConfirmation renders the confirmation mail for o. titles maps
// product ids to display names; unknown ids fall back to "Product #id".
func RenderConfirmation(name string, o models.Order, titles map[int64]string) (string, error) {
	data := confirmationData{
		Name:    name,
		OrderID: o.ID,
		Status:  o.Status,
		Total:   o.TotalPrice.StringFixed(2),
	}
	for _, it := range o.Items {
		title, ok := titles[it.ProductID]
		if !ok {
			title = "Product #" + itoa(it.ProductID)
		}
		data.Lines = append(data.Lines, confirmationLine{
			Title:     title,
			Quantity:  it.Quantity,
			UnitPrice: it.PriceAtPurchase.StringFixed(2),
			LineTotal: it.LineTotal().StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
