package soap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abgdnv/xmlcatalog/internal/service"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// RenderReport renders a report as the <reporte> document returned by the reporte operation.
func RenderReport(report *service.Report) (string, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("reporte")
	root.CreateElement("total_productos").SetText(strconv.Itoa(report.TotalProducts))
	root.CreateElement("suma_total_precios").SetText(formatAmount(report.TotalPrice))

	shares := root.CreateElement("porcentajes")
	for _, share := range report.Shares {
		product := shares.CreateElement("producto")
		product.CreateAttr("id", strconv.Itoa(share.ID))
		product.CreateElement("nombre").SetText(share.Name)
		product.CreateElement("precio").SetText(formatAmount(share.Price))
		product.CreateElement("porcentaje").SetText(share.Percentage.StringFixed(2))
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}

// formatAmount always keeps a fractional part: 30 renders as 30.0.
func formatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
