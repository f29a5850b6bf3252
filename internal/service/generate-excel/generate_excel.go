package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"smena-golang/internal/storage"
)

type GenerateExcelStorage interface {
	GetShiftLoads(ctx context.Context, day string) ([]storage.ShiftLoad, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

var shiftTitles = map[string]string{
	storage.ShiftFirst:  "1 смена",
	storage.ShiftSecond: "2 смена",
	storage.ShiftNight:  "Ночная",
}

// GenerateExcel строит отчёт загрузки за день: станки по строкам, по каждой
// смене — занято и лимит в КОРВ.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, day string) ([]byte, error) {
	loads, err := g.storage.GetShiftLoads(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Загрузка " + day
	f.SetSheetName("Sheet1", sheet)

	// Жирная шапка с заливкой
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"Станок",
		"1 смена, КОРВ", "1 смена, лимит",
		"2 смена, КОРВ", "2 смена, лимит",
		"Ночная, КОРВ", "Ночная, лимит"}

	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	shiftCol := map[string]int{
		storage.ShiftFirst:  2,
		storage.ShiftSecond: 4,
		storage.ShiftNight:  6,
	}

	// Строки по станкам: loads идут по три на станок (все смены)
	rowByMachine := make(map[int64]int)
	nextRow := 2
	for _, l := range loads {
		row, ok := rowByMachine[l.MachineID]
		if !ok {
			row = nextRow
			rowByMachine[l.MachineID] = row
			nextRow++
			f.SetCellValue(sheet, cellName(1, row), l.MachineName)
		}

		col := shiftCol[l.Shift]
		f.SetCellValue(sheet, cellName(col, row), l.UsedKorv)
		f.SetCellValue(sheet, cellName(col+1, row), l.MaxKorv)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write buffer: %w", err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
