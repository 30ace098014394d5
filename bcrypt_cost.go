//go:build !race

package mindlit

func passwordHashCost() int {
	return 14
}
