package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 三维数学辅助函数
//
// 所有世界坐标使用右手坐标系：+Y 向上，+Z 为弓的前方（箭的飞行方向）。

// WorldForward 本地坐标系的前方向
var WorldForward = mgl64.Vec3{0, 0, 1}

// WorldUp 世界坐标系的上方向
var WorldUp = mgl64.Vec3{0, 1, 0}

// Clamp01 将值限制在 [0, 1] 范围内
// NaN 视为 0
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ProjectOntoAxis 计算点在线段轴上的归一化投影
//
// 公式：dot(point - start, normalize(end - start)) / |end - start|
// 结果不做限制，调用方按需 Clamp01。
// 轴长度为 0 时返回 0。
func ProjectOntoAxis(point, start, end mgl64.Vec3) float64 {
	axis := end.Sub(start)
	length := axis.Len()
	if length == 0 {
		return 0
	}
	return point.Sub(start).Dot(axis.Normalize()) / length
}

// ForwardOf 返回旋转后的前方向（单位向量）
func ForwardOf(rotation mgl64.Quat) mgl64.Vec3 {
	return rotation.Rotate(WorldForward)
}

// LookRotation 返回使前方向指向 dir 的旋转
// dir 为零向量时返回单位四元数
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(WorldForward, dir.Normalize())
}

// SegmentPlane 计算线段 a→b 与平面的交点
//
// 返回：
//   - t: 交点在线段上的参数 [0, 1]
//   - point: 交点
//   - ok: 线段是否穿过平面（端点恰好位于平面上也算）
func SegmentPlane(a, b, planePoint, normal mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	da := normal.Dot(a.Sub(planePoint))
	db := normal.Dot(b.Sub(planePoint))

	// 两端同侧，且都不在平面上
	if (da > 0 && db > 0) || (da < 0 && db < 0) {
		return 0, mgl64.Vec3{}, false
	}
	if da == db {
		// 线段位于平面内（da == db == 0），取起点
		return 0, a, true
	}

	t := da / (da - db)
	return t, a.Add(b.Sub(a).Mul(t)), true
}
