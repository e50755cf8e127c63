package chain

import (
	"fmt"
	"math/big"
	"strings"
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatWei renders a wei amount as a decimal ether string without precision
// loss: 10000000000000000 → "0.01".
func FormatWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	out := whole.String()
	if frac.Sign() != 0 {
		digits := fmt.Sprintf("%018s", frac.String())
		digits = strings.TrimRight(digits, "0")
		out += "." + digits
	}
	if wei.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// ParseEther converts a decimal ether string to wei. It rejects anything
// beyond 18 fractional digits rather than rounding.
func ParseEther(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(value, "-") {
		negative = true
		value = value[1:]
	}

	wholePart := value
	fracPart := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		wholePart = value[:idx]
		fracPart = value[idx+1:]
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fracPart) > 18 {
		return nil, fmt.Errorf("more than 18 fractional digits in %q", value)
	}

	whole, ok := new(big.Int).SetString(wholePart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	wei := new(big.Int).Mul(whole, weiPerEther)

	if fracPart != "" {
		// Right-pad to exactly 18 digits so "01" means 0.01 ether.
		padded := fracPart + strings.Repeat("0", 18-len(fracPart))
		frac, ok := new(big.Int).SetString(padded, 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", value)
		}
		wei.Add(wei, frac)
	}

	if negative {
		wei.Neg(wei)
	}
	return wei, nil
}
