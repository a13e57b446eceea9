// Package utils
package utils

// ReverseForEach 从尾到头遍历, 用于按注册的相反顺序执行回调
func ReverseForEach[T any](src []T, callback func(index int, element T)) {
	for i := len(src) - 1; i >= 0; i-- {
		callback(i, src[i])
	}
}

// BoundedPushFront 将元素插入切片头部, 超出容量时丢弃最旧元素
func BoundedPushFront[T any](src []T, element T, limit int) []T {
	src = append(src, element)
	copy(src[1:], src[:len(src)-1])
	src[0] = element
	if limit > 0 && len(src) > limit {
		src = src[:limit]
	}
	return src
}
