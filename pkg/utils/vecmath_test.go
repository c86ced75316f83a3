package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"pgregory.net/rapid"
)

// TestClamp01 测试 [0,1] 限制
func TestClamp01(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"负数", -0.5, 0},
		{"零", 0, 0},
		{"中间值", 0.42, 0.42},
		{"一", 1, 1},
		{"超出", 3.2, 1},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp01(tt.input); got != tt.expected {
				t.Errorf("Clamp01(%v) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestProjectOntoAxis 测试轴投影
func TestProjectOntoAxis(t *testing.T) {
	start := mgl64.Vec3{0, 0, 0}
	end := mgl64.Vec3{0, 0, -2}

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected float64
	}{
		{"起点", mgl64.Vec3{0, 0, 0}, 0},
		{"中点", mgl64.Vec3{0, 0, -1}, 0.5},
		{"终点", mgl64.Vec3{0, 0, -2}, 1},
		{"轴外侧向偏移不影响投影", mgl64.Vec3{5, 3, -1}, 0.5},
		{"起点之前", mgl64.Vec3{0, 0, 1}, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectOntoAxis(tt.point, start, end)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ProjectOntoAxis(%v) = %v, 期望 %v", tt.point, got, tt.expected)
			}
		})
	}

	if got := ProjectOntoAxis(mgl64.Vec3{1, 1, 1}, start, start); got != 0 {
		t.Errorf("零长度轴应返回 0, got %v", got)
	}
}

// TestLookRotation 测试朝向旋转
func TestLookRotation(t *testing.T) {
	dirs := []mgl64.Vec3{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 1},
		{-3, 2, 5},
	}
	for _, dir := range dirs {
		forward := ForwardOf(LookRotation(dir))
		if !vecNear(forward, dir.Normalize(), 1e-6) {
			t.Errorf("LookRotation(%v) forward = %v", dir, forward)
		}
	}

	if q := LookRotation(mgl64.Vec3{}); q != mgl64.QuatIdent() {
		t.Errorf("零向量应返回单位四元数, got %v", q)
	}
}

// TestSegmentPlane 测试线段与平面求交
func TestSegmentPlane(t *testing.T) {
	planePoint := mgl64.Vec3{0, 0, 10}
	normal := mgl64.Vec3{0, 0, -1}

	t.Run("穿过平面", func(t *testing.T) {
		tt, p, ok := SegmentPlane(mgl64.Vec3{0, 1, 8}, mgl64.Vec3{0, 1, 12}, planePoint, normal)
		if !ok {
			t.Fatal("应检测到相交")
		}
		if math.Abs(tt-0.5) > 1e-9 || !vecNear(p, mgl64.Vec3{0, 1, 10}, 1e-9) {
			t.Errorf("t=%v point=%v", tt, p)
		}
	})

	t.Run("未到达平面", func(t *testing.T) {
		if _, _, ok := SegmentPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 9}, planePoint, normal); ok {
			t.Error("不应检测到相交")
		}
	})

	t.Run("反向穿过", func(t *testing.T) {
		if _, _, ok := SegmentPlane(mgl64.Vec3{0, 0, 12}, mgl64.Vec3{0, 0, 8}, planePoint, normal); !ok {
			t.Error("双面平面应检测到相交")
		}
	})
}

// TestClamp01_Property 属性测试：结果始终位于 [0,1]，且区间内的值保持不变
func TestClamp01_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1e6, 1e6).Draw(t, "v")
		got := Clamp01(v)
		if got < 0 || got > 1 {
			t.Fatalf("Clamp01(%v) = %v out of range", v, got)
		}
		if v >= 0 && v <= 1 && got != v {
			t.Fatalf("Clamp01(%v) = %v, want identity", v, got)
		}
	})
}

// vecNear 按绝对误差比较向量（分量为 0 时也适用）
func vecNear(got, want mgl64.Vec3, tol float64) bool {
	return got.Sub(want).Len() < tol
}
