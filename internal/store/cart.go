package store

import "github.com/Son-2003/e-commerse-sub000/internal/domain"

// Pure transformations of the cart line list. Lines are identified by
// (product id, size); insertion order is preserved by every operation.
//
// Merge policy: adding a line that already exists sums the quantities
// (existing + incoming). Decrement is total: a line decremented at
// quantity 1 is removed, so a present line never holds less than 1.

func addLine(lines []domain.CartLine, line domain.CartLine) []domain.CartLine {
	for i := range lines {
		if lines[i].SameLine(line) {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}

func decrementLine(lines []domain.CartLine, line domain.CartLine) []domain.CartLine {
	for i := range lines {
		if !lines[i].SameLine(line) {
			continue
		}
		if lines[i].Quantity <= 1 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Quantity--
		return lines
	}
	return lines
}

// removeLine drops every line with the product id when no size is given,
// and only the exact (id, size) line otherwise.
func removeLine(lines []domain.CartLine, line domain.CartLine) []domain.CartLine {
	kept := lines[:0]
	for _, candidate := range lines {
		if candidate.ProductID == line.ProductID && (line.Size == "" || candidate.Size == line.Size) {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// countLines is the number of distinct lines, not the quantity sum.
func countLines(lines []domain.CartLine) int {
	return len(lines)
}

func cartAmount(lines []domain.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}
