package summary

import (
	"fmt"
	"math"
	"time"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

// TotalWorkedSeconds 一个工作日的 work 片段总秒数
// 未收口的片段按持续到 now 计算
func TotalWorkedSeconds(day models.Workday, now int64) int64 {
	var sum int64
	for _, s := range day.Sections {
		if s.Kind != models.SectionWork {
			continue
		}
		end := now
		if s.End != nil {
			end = *s.End
		}
		sum += (end - s.Start) / 1000
	}
	return sum
}

// TotalWorkedSecondsForDate 某一天所有工作日记录的 work 秒数之和
// 同一天结束又重新开始会产生多条记录，都要算进去
func TotalWorkedSecondsForDate(days []models.Workday, date string, now int64) int64 {
	var sum int64
	for _, d := range days {
		if d.Date == date {
			sum += TotalWorkedSeconds(d, now)
		}
	}
	return sum
}

// 周视图的一天
type WeekEntry struct {
	Label   string  `json:"label"` // 周一开头的星期缩写
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"` // 保留一位小数
	IsToday bool    `json:"is_today"`
}

// 星期缩写，周一在前（前端是德语界面）
var weekdayLabels = [7]string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}

func weekdayLabel(t time.Time) string {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // ISO：周日算第 7 天
	}
	return weekdayLabels[wd-1]
}

// WeeklySeries 以 today 结尾的 7 天窗口，每天汇总工作小时数
// 同日期的多条记录相加；没有记录的日期记 0 小时，不报错
func WeeklySeries(days []models.Workday, today time.Time, now int64) []WeekEntry {
	secByDate := make(map[string]int64, len(days))
	for _, d := range days {
		secByDate[d.Date] += TotalWorkedSeconds(d, now)
	}

	out := make([]WeekEntry, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")
		var hours float64
		if sec, ok := secByDate[date]; ok {
			hours = math.Round(float64(sec)/3600*10) / 10
		}
		out = append(out, WeekEntry{
			Label:   weekdayLabel(day),
			Date:    date,
			Hours:   hours,
			IsToday: i == 0,
		})
	}
	return out
}

// FormatDuration 把秒数格式化成 "1h 40m" / "45m" / "30s"
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// ValidateSections 重新保存编辑过的工作日前校验片段
// 规则：start>=end（两者都有时）拒绝；任意两个片段重叠拒绝
// 只报告，不悄悄修正；未收口的 end 按 now 参与重叠比较
func ValidateSections(sections []models.Section, now int64) error {
	endOf := func(s models.Section) int64 {
		if s.End != nil {
			return *s.End
		}
		return now
	}
	for i, s := range sections {
		if s.End != nil && s.Start >= *s.End {
			return fmt.Errorf("section %d: start is not before end", i+1)
		}
	}
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			a, b := sections[i], sections[j]
			if a.Start < endOf(b) && endOf(a) > b.Start {
				return fmt.Errorf("sections %d and %d overlap", i+1, j+1)
			}
		}
	}
	return nil
}
