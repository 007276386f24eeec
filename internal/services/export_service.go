package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
)

// ExportService renders ledger data as spreadsheets
type ExportService struct {
	reportSvc  *ReportService
	ledgerRepo repository.CashLedgerRepository
}

// NewExportService creates a new export service
func NewExportService(reportSvc *ReportService, ledgerRepo repository.CashLedgerRepository) *ExportService {
	return &ExportService{reportSvc: reportSvc, ledgerRepo: ledgerRepo}
}

// DashboardXLSX renders the studio dashboard as a spreadsheet
func (s *ExportService) DashboardXLSX(ctx context.Context) ([]byte, string, error) {
	summary, err := s.reportSvc.Dashboard(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Resumen"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Resumen Financiero del Estudio")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Caja Maestra")
	_ = f.SetCellValue(sheet, "A4", "Balance")
	_ = f.SetCellValue(sheet, "B4", summary.MasterBalance)
	_ = f.SetCellValue(sheet, "A5", "Ingresos Totales")
	_ = f.SetCellValue(sheet, "B5", summary.MasterTotalIncome)
	_ = f.SetCellValue(sheet, "A6", "Egresos Totales")
	_ = f.SetCellValue(sheet, "B6", summary.MasterTotalExpense)

	_ = f.SetCellValue(sheet, "A8", "Caja Administrativa")
	_ = f.SetCellValue(sheet, "A9", "Balance")
	_ = f.SetCellValue(sheet, "B9", summary.AdminBalance)
	_ = f.SetCellValue(sheet, "A10", "Honorarios Cobrados")
	_ = f.SetCellValue(sheet, "B10", summary.AdminCollected)

	_ = f.SetCellValue(sheet, "A12", "Proyectos por Estado")
	row := 13
	for status, count := range summary.ProjectsByStatus {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), count)
		row++
	}

	// Cash flow in a second sheet
	flowSheet := "Flujo de Caja"
	_, err = f.NewSheet(flowSheet)
	if err == nil {
		_ = f.SetCellValue(flowSheet, "A1", "Mes")
		_ = f.SetCellValue(flowSheet, "B1", "Moneda")
		_ = f.SetCellValue(flowSheet, "C1", "Ingresos")
		_ = f.SetCellValue(flowSheet, "D1", "Egresos")
		for i, flow := range summary.MonthlyCashFlow {
			_ = f.SetCellValue(flowSheet, fmt.Sprintf("A%d", i+2), flow.Month)
			_ = f.SetCellValue(flowSheet, fmt.Sprintf("B%d", i+2), flow.Currency)
			_ = f.SetCellValue(flowSheet, fmt.Sprintf("C%d", i+2), flow.Income)
			_ = f.SetCellValue(flowSheet, fmt.Sprintf("D%d", i+2), flow.Expense)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("resumen_financiero_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ProjectMovementsXLSX renders a project's movement history as a spreadsheet
func (s *ExportService) ProjectMovementsXLSX(ctx context.Context, project *models.Project) ([]byte, string, error) {
	movements, err := s.ledgerRepo.FindMovementsByProject(ctx, project.ID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Movimientos"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Movimientos de %s (%s)", project.Name, project.Code))

	headers := []string{"Fecha", "Tipo", "Descripción", "Monto", "Moneda", "Referencia"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c3", 'A'+i)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, m := range movements {
		row := i + 4
		ref := ""
		if m.ReferenceNumber != nil {
			ref = *m.ReferenceNumber
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.CreatedAt.Format("02/01/2006 15:04"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.MovementType)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Description)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Amount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.Currency)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), ref)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("movimientos_%s_%s.xlsx", project.Code, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
