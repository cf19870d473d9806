package utils

// IndexOf 返回第一个等于 target 的下标，找不到返回 -1
func IndexOf[T comparable](slice []T, target T) int {
	for i, item := range slice {
		if item == target {
			return i
		}
	}
	return -1
}

// RemoveAt 越界时原样返回
func RemoveAt[T any](slice []T, index int) []T {
	if index < 0 || index >= len(slice) {
		return slice
	}
	return append(slice[:index], slice[index+1:]...)
}

// RemoveFirst 删除第一个等于 target 的元素，返回是否删除成功
func RemoveFirst[T comparable](slice []T, target T) ([]T, bool) {
	idx := IndexOf(slice, target)
	if idx < 0 {
		return slice, false
	}
	return RemoveAt(slice, idx), true
}

func Count[T comparable](slice []T, target T) int {
	n := 0
	for _, item := range slice {
		if item == target {
			n++
		}
	}
	return n
}
