package weekimage

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/mkozlov/timetable_bot/internal/controller/formatting"
	"github.com/mkozlov/timetable_bot/internal/model"
	"github.com/mkozlov/timetable_bot/internal/service"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 80
	leftLabelsWidth  = 70
	dayPaddingX      = 6
	slotPaddingX     = 3
	minSlotHeight    = 10.0
	slotBorderRadius = 5.0
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

// Цветовая схема
var (
	bgColor           = color.RGBA{245, 246, 248, 255}
	textColor         = color.RGBA{80, 85, 90, 220}
	hourLabelColor    = color.RGBA{110, 115, 120, 200}
	hourLineColor     = color.NRGBA{150, 150, 150, 120}
	todayBgColor      = color.NRGBA{255, 99, 71, 60}
	slotColor         = color.RGBA{133, 193, 85, 220}
	slotCustomColor   = color.RGBA{100, 160, 220, 220}
	slotRecoveryColor = color.RGBA{255, 182, 100, 230}
	slotTextColor     = color.RGBA{20, 24, 28, 230}
)

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
}

// Render рисует сетку недели с разрешёнными парами и возвращает PNG.
// Дни идут в том порядке, в каком их отдал ResolveWeek; сегодняшняя
// колонка подсвечивается.
func Render(days []service.DaySchedule, today time.Time) ([]byte, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("no days to render")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	hours := visibleHours(days)
	dayWidth := float64(imageWidth-leftLabelsWidth) / float64(len(days))
	gridTop := float64(headerHeight)
	gridHeight := float64(imageHeight) - gridTop - 20
	hourHeight := gridHeight / float64(hours.end-hours.start)

	// Подсветка сегодняшнего дня
	for i, day := range days {
		if model.SameDate(day.Date, today) {
			dc.SetColor(todayBgColor)
			dc.DrawRectangle(dayX(i, dayWidth), gridTop, dayWidth, gridHeight)
			dc.Fill()
		}
	}

	// Горизонтальные линии часов и подписи слева
	for hour := hours.start; hour <= hours.end; hour++ {
		y := gridTop + float64(hour-hours.start)*hourHeight

		dc.SetColor(hourLineColor)
		dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
		dc.Stroke()

		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hour), leftLabelsWidth-8, y, 1, 0.4)
	}

	// Заголовки дней
	for i, day := range days {
		label := fmt.Sprintf("%s %s", formatting.GetWeekdayShortName(day.Date.Weekday()), day.Date.Format("02.01"))
		if day.Override != nil {
			label += " *"
		}
		dc.SetColor(textColor)
		dc.DrawStringAnchored(label, dayX(i, dayWidth)+dayWidth/2, gridTop-20, 0.5, 0.5)
	}

	// Пары
	for i, day := range days {
		for j := range day.Items {
			item := &day.Items[j]
			drawSlot(dc, item, dayX(i, dayWidth), dayWidth, gridTop, hourHeight, hours)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}

	return buf.Bytes(), nil
}

// visibleHours подбирает диапазон часов так, чтобы все пары попали в сетку
func visibleHours(days []service.DaySchedule) hourRange {
	hours := hourRange{start: defaultMinHour, end: defaultMaxHour}

	for _, day := range days {
		for _, item := range day.Items {
			if item.StartTime.Hour() < hours.start {
				hours.start = item.StartTime.Hour()
			}
			if item.EndTime.Hour()+1 > hours.end {
				hours.end = item.EndTime.Hour() + 1
			}
		}
	}

	return hours
}

func dayX(index int, dayWidth float64) float64 {
	return leftLabelsWidth + float64(index)*dayWidth
}

func drawSlot(dc *gg.Context, item *model.ResolvedScheduleItem, x, dayWidth, gridTop, hourHeight float64, hours hourRange) {
	minutesFromTop := float64(int(item.StartTime) - hours.start*60)
	durationMinutes := float64(int(item.EndTime) - int(item.StartTime))

	y := gridTop + minutesFromTop/60*hourHeight
	height := durationMinutes / 60 * hourHeight
	if height < minSlotHeight {
		height = minSlotHeight
	}

	fill := slotColor
	switch {
	case item.IsRecoveryProjection:
		fill = slotRecoveryColor
	case item.IsCustom:
		fill = slotCustomColor
	}

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, dayWidth-2*dayPaddingX, height-2, slotBorderRadius)
	dc.Fill()

	dc.SetColor(slotTextColor)
	label := fmt.Sprintf("%s %s", item.StartTime, item.SubjectName)
	if item.RoomNumber != "" {
		label += " (" + item.RoomNumber + ")"
	}
	dc.DrawStringAnchored(label, x+dayPaddingX+slotPaddingX, y+height/2, 0, 0.4)
}
