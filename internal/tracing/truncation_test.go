package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	t.Run("空值", func(t *testing.T) {
		assert.Equal(t, "", MaskPII(""))
	})

	t.Run("短值", func(t *testing.T) {
		assert.Equal(t, "*", MaskPII("a"))
		assert.Equal(t, "张*", MaskPII("张三"))
		assert.Equal(t, "王*明", MaskPII("王小明"))
	})

	t.Run("邮箱保留首尾", func(t *testing.T) {
		masked := MaskPII("john@example.com")
		assert.Equal(t, "jo************om", masked)
	})

	t.Run("手机号保留首尾", func(t *testing.T) {
		assert.Equal(t, "98*******10", MaskPII("98765432110"))
	})
}

func TestSafeAttributeValue(t *testing.T) {
	t.Run("敏感属性名被掩码", func(t *testing.T) {
		assert.Equal(t, "jo************om", SafeAttributeValue("candidate_email", "john@example.com", DefaultMaxLength))
		assert.Equal(t, "Jo****oe", SafeAttributeValue("name", "John Doe", DefaultMaxLength))
	})

	t.Run("普通属性只截断", func(t *testing.T) {
		assert.Equal(t, "resume/abc/original.pdf", SafeAttributeValue("object_key", "resume/abc/original.pdf", DefaultMaxLength))
	})
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := "SELECT * FROM resume_submissions WHERE processing_status = 'PENDING_PARSING' ORDER BY created_at"
	truncated := TruncateString(long, 40)
	assert.LessOrEqual(t, len([]rune(truncated)), 40)
	assert.Contains(t, truncated, "...")
}
