package report

import (
	"fmt"
	"strings"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

// Placeholder lines rendered when a collector returned nothing. The LLM is
// told about the gap instead of the section silently disappearing.
const (
	noRevenueData  = "⚠ 매출 데이터가 없습니다."
	noChatMessages = "어제 Slack에 메시지가 없었습니다."
	noCalendarData = "(캘린더 데이터 없음)"
	noDocsData     = "(Notion 업데이트 없음)"
)

// PromptInput carries every collected section. Any pointer may be nil.
type PromptInput struct {
	Days     int
	Revenue  *domain.RevenueReport
	Calendar *domain.CalendarDigest
	Chat     *domain.ChatDigest
	Docs     *domain.DocsDigest
}

// BuildPrompt assembles the instruction prompt. Pure function of its input;
// the section order and the output template are fixed.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("당신은 CEO의 Staff로서 조직을 모니터링합니다.\n\n")

	b.WriteString("[매출 현황]\n")
	writeRevenue(&b, in.Revenue)

	b.WriteString("\n[캘린더]\n")
	writeCalendar(&b, in.Calendar)

	fmt.Fprintf(&b, "\n[Slack 대화 내역 (최근 %d일)]\n", in.Days)
	writeChat(&b, in.Chat)

	b.WriteString("\n[Notion 문서 업데이트]\n")
	writeDocs(&b, in.Docs)

	b.WriteString(`
다음 형식으로 분석해주세요:

📌 긴급 이슈 (우선순위 Top 3)
🔴 [팀명] 이슈 제목
   - 상황: 간단 요약
   - 영향: 비즈니스 임팩트
   - 추천 액션: CEO가 할 일

🟡 주의 필요
   (같은 형식)

🟢 칭찬할 점
   - 팀원 이름
   - 기여 내용
   - 추천 액션

⚠️ 패턴 감지
   - 반복되는 문제
   - 소통 단절 징후
   - 방향성 혼란

분석 시 주의사항:
- 비즈니스 임팩트가 큰 것 우선
- 감정 아닌 사실 기반
- 구체적 액션 아이템
- SuperWalk/DeFi/베이직 모드 관련 특히 주의
- 굵은 글씨 표시(**)는 사용하지 마세요
- 전체 800단어 이내로 작성
- 금액은 억원/만원 단위로 표기
`)

	return b.String()
}

func writeRevenue(b *strings.Builder, r *domain.RevenueReport) {
	if r == nil || len(r.Days) == 0 {
		b.WriteString(noRevenueData + "\n")
		return
	}

	for _, d := range r.Days {
		if !d.HasData {
			fmt.Fprintf(b, "- %s: ⚠ 데이터 없음\n", d.Date)
			continue
		}
		fmt.Fprintf(b, "- %s: %s\n", d.Date, FormatKRW(d.Total))
	}

	if r.DayOverDayPct != nil {
		fmt.Fprintf(b, "전일 대비: %+.1f%%\n", *r.DayOverDayPct)
	}
	fmt.Fprintf(b, "최근 7일 일평균: %s\n", FormatKRW(r.TrailingAvg))
	if r.MonthlyTarget > 0 {
		fmt.Fprintf(b, "이번 달 누적: %s (목표 %s 대비 %.1f%%)\n",
			FormatKRW(r.MonthToDate), FormatKRW(r.MonthlyTarget), r.AttainmentPct)
	} else {
		fmt.Fprintf(b, "이번 달 누적: %s\n", FormatKRW(r.MonthToDate))
	}
	fmt.Fprintf(b, "월말 예상: %s\n", FormatKRW(r.ProjectedMonthEnd))
}

func writeCalendar(b *strings.Builder, c *domain.CalendarDigest) {
	if c == nil {
		b.WriteString(noCalendarData + "\n")
		return
	}

	b.WriteString("오늘 일정:\n")
	if len(c.Today) == 0 {
		b.WriteString("- 없음\n")
	}
	for _, ev := range c.Today {
		writeEvent(b, ev)
	}

	if len(c.Upcoming) > 0 {
		b.WriteString("다가오는 일정:\n")
		for _, ev := range c.Upcoming {
			writeEvent(b, ev)
		}
	}

	if len(c.WeeklyHours) > 0 {
		b.WriteString("이번 주 시간 배분:\n")
		for _, cat := range []domain.EventCategory{
			domain.CategoryMeeting, domain.CategoryProduct, domain.CategoryOps,
			domain.CategoryGrowth, domain.CategoryPersonal,
		} {
			if hours, ok := c.WeeklyHours[cat]; ok {
				fmt.Fprintf(b, "- %s: %.1f시간\n", cat, hours)
			}
		}
	}

	if len(c.FreeToday) > 0 {
		b.WriteString("오늘 여유 시간:\n")
		for _, slot := range c.FreeToday {
			fmt.Fprintf(b, "- %s ~ %s\n", slot.Start.Format("15:04"), slot.End.Format("15:04"))
		}
	}
}

func writeEvent(b *strings.Builder, ev domain.CalendarEvent) {
	tags := []string{string(ev.Category)}
	if ev.IsExternal {
		tags = append(tags, "외부")
	}
	if ev.HasVideoLink {
		tags = append(tags, "화상")
	}
	fmt.Fprintf(b, "- %s %s (%d분, %s)\n",
		ev.Start.Format("01/02 15:04"), ev.Title, ev.DurationMinutes, strings.Join(tags, "/"))
}

func writeChat(b *strings.Builder, c *domain.ChatDigest) {
	if c == nil || len(c.Messages) == 0 {
		b.WriteString(noChatMessages + "\n")
		return
	}
	for _, m := range c.Messages {
		if m.IsThreadReply {
			fmt.Fprintf(b, "  ↳ [%s] %s: %s\n", m.Conversation, m.Author, m.Text)
			continue
		}
		fmt.Fprintf(b, "[%s] %s: %s\n", m.Conversation, m.Author, m.Text)
	}
}

func writeDocs(b *strings.Builder, d *domain.DocsDigest) {
	if d == nil || len(d.Pages) == 0 {
		b.WriteString(noDocsData + "\n")
		return
	}
	for _, p := range d.Pages {
		editor := p.LastEditedBy
		if editor == "" {
			editor = "알 수 없음"
		}
		fmt.Fprintf(b, "- %s (수정: %s, %s)\n", p.Title, p.LastEdited.Format("01/02 15:04"), editor)
		if p.Body != "" {
			for _, line := range strings.Split(strings.TrimSpace(p.Body), "\n") {
				fmt.Fprintf(b, "  %s\n", line)
			}
		}
		for _, cm := range p.Comments {
			fmt.Fprintf(b, "  💬 %s: %s\n", cm.Author, cm.Text)
		}
	}
}
