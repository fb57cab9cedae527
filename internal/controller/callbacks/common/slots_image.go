package common

import (
	"bytes"
	"image/color"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов сетки слотов
const (
	slotImageWidth   = 900
	slotHeaderHeight = 70
	legendHeight     = 50
	slotsPerRow      = 4
	slotCellWidth    = 210
	slotCellHeight   = 60
	slotPadding      = 8.0
	slotCornerRadius = 8.0
	slotShadowShift  = 3.0
)

// Цветовая схема сетки слотов
var (
	gridBgColor     = color.RGBA{245, 246, 248, 255}
	gridTextColor   = color.RGBA{80, 85, 90, 220}
	legendTextClr   = color.RGBA{90, 95, 100, 220}
	cellShadowColor = color.RGBA{0, 0, 0, 20}

	cellFreeColor     = color.RGBA{133, 193, 85, 220}
	cellBookedColor   = color.RGBA{255, 182, 193, 255} // Светло-розовый для занятых
	cellSelectedColor = color.RGBA{86, 154, 235, 235}  // Синий для выбранных

	cellTextColor         = color.RGBA{20, 24, 28, 230}
	cellBookedTextColor   = color.RGBA{120, 40, 50, 255}
	cellSelectedTextColor = color.RGBA{245, 248, 252, 255}
)

// GenerateSlotsImage генерирует изображение сетки слотов площадки на выбранную дату.
// selected - времена начала выбранных пользователем слотов
func GenerateSlotsImage(facilityName string, date time.Time, slots []model.AvailabilitySlot, selected []model.AvailabilitySlot) ([]byte, error) {
	rows := (len(slots) + slotsPerRow - 1) / slotsPerRow
	if rows == 0 {
		rows = 1
	}
	height := slotHeaderHeight + rows*slotCellHeight + legendHeight

	dc := gg.NewContext(slotImageWidth, height)
	dc.SetColor(gridBgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawSlotsHeader(dc, facilityName, date)
	drawSlotCells(dc, slots, selected)
	drawSlotsLegend(dc, float64(height-legendHeight))

	return encodeSlotsImage(dc)
}

// drawSlotsHeader рисует заголовок с названием площадки и датой
func drawSlotsHeader(dc *gg.Context, facilityName string, date time.Time) {
	title := facilityName + " — " + formatting.FormatDate(date)
	dc.SetColor(gridTextColor)
	dc.DrawStringAnchored(title, float64(slotImageWidth)/2, float64(slotHeaderHeight)/2, 0.5, 0.5)
}

// drawSlotCells рисует ячейки слотов
func drawSlotCells(dc *gg.Context, slots []model.AvailabilitySlot, selected []model.AvailabilitySlot) {
	leftMargin := (slotImageWidth - slotsPerRow*slotCellWidth) / 2

	for i, slot := range slots {
		col := i % slotsPerRow
		row := i / slotsPerRow

		x := float64(leftMargin+col*slotCellWidth) + slotPadding
		y := float64(slotHeaderHeight+row*slotCellHeight) + slotPadding
		w := float64(slotCellWidth) - slotPadding*2
		h := float64(slotCellHeight) - slotPadding*2

		fillColor, txtColor := cellColors(slot, selected)

		// Тень
		dc.SetColor(cellShadowColor)
		dc.DrawRoundedRectangle(x+slotShadowShift, y+slotShadowShift, w, h, slotCornerRadius)
		dc.Fill()

		// Ячейка
		dc.SetColor(fillColor)
		dc.DrawRoundedRectangle(x, y, w, h, slotCornerRadius)
		dc.Fill()

		// Рамка
		dc.SetColor(darkenCellColor(fillColor, 0.8))
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(x, y, w, h, slotCornerRadius)
		dc.Stroke()

		// Текст интервала
		dc.SetColor(txtColor)
		label := formatting.FormatSlot(slot.StartTime, slot.EndTime)
		dc.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.5)
	}
}

// cellColors выбирает цвета ячейки по статусу слота
func cellColors(slot model.AvailabilitySlot, selected []model.AvailabilitySlot) (color.RGBA, color.RGBA) {
	if slot.IsBooked {
		return cellBookedColor, cellBookedTextColor
	}
	if model.IsSelected(selected, slot) {
		return cellSelectedColor, cellSelectedTextColor
	}
	return cellFreeColor, cellTextColor
}

// darkenCellColor затемняет цвет на указанный множитель
func darkenCellColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawSlotsLegend рисует легенду внизу
func drawSlotsLegend(dc *gg.Context, y float64) {
	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Свободно", cellFreeColor},
		{"Выбрано", cellSelectedColor},
		{"Занято", cellBookedColor},
	}

	boxW := 20.0
	boxH := 14.0
	liX := 40.0
	liY := y + 18

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendTextClr)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liX += boxW + 8 + 130
	}
}

// encodeSlotsImage кодирует изображение в PNG
func encodeSlotsImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
