package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ats-parser-go/internal/types"
)

func TestExtractName(t *testing.T) {
	engine := NewEngine()

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"标题大小写的姓名", "John Smith\njohn@example.com", "John Smith"},
		{"全大写姓名同样通过", "JOHN SMITH DOE\ncontact: x@y.com", "JOHN SMITH DOE"},
		{"先跳过resume标题行", "resume\nJOHN SMITH DOE", "JOHN SMITH DOE"},
		{"跳过curriculum vitae标题行", "Curriculum Vitae\nJane Ann Doe", "Jane Ann Doe"},
		{"单个单词不是姓名", "John\nsome other content", types.NotFound},
		{"超过4个单词不是姓名", "John Jacob Jingleheimer Schmidt Junior\nx", types.NotFound},
		{"小写开头的行不是姓名", "john smith\nx", types.NotFound},
		{"含数字的行不是姓名", "John Smith 42\nx", types.NotFound},
		{"只看前10行", "\n\n\n\n\n\n\n\n\n\nJohn Smith", types.NotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info := engine.ContactInfo(tc.text)
			assert.Equal(t, tc.expected, info.Name)
		})
	}
}

func TestExtractEmailAndPhone(t *testing.T) {
	engine := NewEngine()

	t.Run("首个邮箱获胜", func(t *testing.T) {
		info := engine.ContactInfo("contact a.b+c@example.co.in or backup@example.com")
		assert.Equal(t, "a.b+c@example.co.in", info.Email)
	})

	t.Run("电话形态", func(t *testing.T) {
		testCases := []struct {
			name     string
			text     string
			expected string
		}{
			{"10位裸数字", "call 9876543210 now", "9876543210"},
			{"加号国家码", "+91 9876543210", "+91 9876543210"},
			{"连字符分隔", "+1-9876543210", "+1-9876543210"},
			{"括号国家码", "(91) 9876543210", "(91) 9876543210"},
			{"位数不足不匹配", "call 98765 now", types.NotFound},
			{"更长数字串的尾段不是电话", "Order ref 1234567890123456 enclosed", types.NotFound},
			{"11位裸数字不匹配", "call 98765432101 now", types.NotFound},
			{"文本开头的电话可匹配", "9876543210 is my number", "9876543210"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				info := engine.ContactInfo(tc.text)
				assert.Equal(t, tc.expected, info.Phone)
			})
		}
	})

	t.Run("三项互相独立", func(t *testing.T) {
		// 没有姓名和电话时邮箱照常提取
		info := engine.ContactInfo("lowercase line\nreach me: someone@example.com")
		assert.Equal(t, types.NotFound, info.Name)
		assert.Equal(t, "someone@example.com", info.Email)
		assert.Equal(t, types.NotFound, info.Phone)
	})
}
