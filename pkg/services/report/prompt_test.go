package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

func TestBuildPromptEmptySectionsUsePlaceholders(t *testing.T) {
	prompt := BuildPrompt(PromptInput{Days: 1})

	assert.Contains(t, prompt, noRevenueData)
	assert.Contains(t, prompt, noChatMessages)
	assert.Contains(t, prompt, noCalendarData)
	assert.Contains(t, prompt, noDocsData)
	assert.Contains(t, prompt, "[Slack 대화 내역 (최근 1일)]")
	assert.Contains(t, prompt, "📌 긴급 이슈")
	assert.Contains(t, prompt, "전체 800단어 이내로 작성")
}

func TestBuildPromptRevenueSection(t *testing.T) {
	dod := 25.0
	prompt := BuildPrompt(PromptInput{
		Days: 1,
		Revenue: &domain.RevenueReport{
			Days: []domain.RevenueDay{
				{Date: "2025-06-09", Total: 150_000_000, HasData: true},
				{Date: "2025-06-08", HasData: false},
			},
			DayOverDayPct:     &dod,
			TrailingAvg:       120_000_000,
			MonthToDate:       900_000_000,
			MonthlyTarget:     3_000_000_000,
			AttainmentPct:     30.0,
			ProjectedMonthEnd: 3_300_000_000,
		},
	})

	assert.Contains(t, prompt, "- 2025-06-09: 1.5억원")
	assert.Contains(t, prompt, "- 2025-06-08: ⚠ 데이터 없음")
	assert.Contains(t, prompt, "전일 대비: +25.0%")
	assert.Contains(t, prompt, "이번 달 누적: 9.0억원 (목표 30.0억원 대비 30.0%)")
	assert.Contains(t, prompt, "월말 예상: 33.0억원")
	assert.NotContains(t, prompt, noRevenueData)
}

func TestBuildPromptSectionOrder(t *testing.T) {
	prompt := BuildPrompt(PromptInput{Days: 3})

	revenue := strings.Index(prompt, "[매출 현황]")
	calendar := strings.Index(prompt, "[캘린더]")
	chat := strings.Index(prompt, "[Slack 대화 내역")
	docs := strings.Index(prompt, "[Notion 문서 업데이트]")
	template := strings.Index(prompt, "다음 형식으로 분석해주세요")

	assert.True(t, revenue < calendar && calendar < chat && chat < docs && docs < template)
}

func TestBuildPromptChatAndDocs(t *testing.T) {
	edited := time.Date(2025, 6, 9, 14, 30, 0, 0, time.UTC)
	prompt := BuildPrompt(PromptInput{
		Days: 1,
		Chat: &domain.ChatDigest{
			Messages: []domain.ChatMessage{
				{Conversation: "dev-team", Author: "jay", Text: "배포 완료"},
				{Conversation: "dev-team", Author: "kim", Text: "확인했습니다", IsThreadReply: true},
			},
		},
		Docs: &domain.DocsDigest{
			Pages: []domain.DocumentPage{
				{
					Title:      "주간 회고",
					LastEdited: edited,
					Body:       "이번 주 성과 정리",
					Comments:   []domain.DocumentComment{{Author: "lee", Text: "공유 감사합니다"}},
				},
			},
		},
	})

	assert.Contains(t, prompt, "[dev-team] jay: 배포 완료")
	assert.Contains(t, prompt, "  ↳ [dev-team] kim: 확인했습니다")
	assert.Contains(t, prompt, "- 주간 회고 (수정: 06/09 14:30, 알 수 없음)")
	assert.Contains(t, prompt, "  💬 lee: 공유 감사합니다")
}

func TestBuildPromptCalendarTags(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	prompt := BuildPrompt(PromptInput{
		Days: 1,
		Calendar: &domain.CalendarDigest{
			Today: []domain.CalendarEvent{
				{
					Title:           "투자사 미팅",
					Start:           start,
					DurationMinutes: 60,
					Category:        domain.CategoryMeeting,
					IsExternal:      true,
					HasVideoLink:    true,
				},
			},
			WeeklyHours: map[domain.EventCategory]float64{
				domain.CategoryMeeting: 2.5,
			},
			FreeToday: []domain.TimeSlot{
				{Start: start.Add(2 * time.Hour), End: start.Add(4 * time.Hour)},
			},
		},
	})

	assert.Contains(t, prompt, "- 06/10 10:00 투자사 미팅 (60분, meeting/외부/화상)")
	assert.Contains(t, prompt, "- meeting: 2.5시간")
	assert.Contains(t, prompt, "- 12:00 ~ 14:00")
}
