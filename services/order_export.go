package services

import (
	"context"
	"fmt"

	"github.com/tealeg/xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportOrders renders every order into a workbook with an "Orders" sheet
// (one row per order) and an "Order Items" sheet (one row per line).
func (s *OrderService) ExportOrders(ctx context.Context) (*xlsx.File, error) {
	orders, err := s.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("add orders sheet: %w", err)
	}
	items, err := file.AddSheet("Order Items")
	if err != nil {
		return nil, fmt.Errorf("add items sheet: %w", err)
	}

	addHeader(sheet, "Order ID", "User ID", "Username", "Status", "Total Amount", "Items", "Created At")
	addHeader(items, "Order ID", "Dish ID", "Dish", "Quantity", "Price", "Specifications")

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(o.ID))
		if o.User != nil {
			row.AddCell().SetInt(int(o.User.ID))
			row.AddCell().SetString(o.User.Username)
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(o.Status))
		amount, _ := o.TotalAmount.Float64()
		row.AddCell().SetFloat(amount)
		row.AddCell().SetInt(len(o.Items))
		row.AddCell().SetString(o.CreatedAt.UTC().Format(exportTimeLayout))

		for _, it := range o.Items {
			ir := items.AddRow()
			ir.AddCell().SetInt(int(o.ID))
			ir.AddCell().SetInt(int(it.Dish.ID))
			ir.AddCell().SetString(it.Dish.Name)
			ir.AddCell().SetInt(it.Quantity)
			price, _ := it.Price.Float64()
			ir.AddCell().SetFloat(price)
			ir.AddCell().SetString(it.Specifications)
		}
	}
	return file, nil
}

func addHeader(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}
