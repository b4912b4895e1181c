package decimalx

import "github.com/shopspring/decimal"

func MustFromString(s string) decimal.Decimal {
	res, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return res
}

// Mean 计算平均值
func Mean(ds []decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}

	var sum decimal.Decimal
	for _, d := range ds {
		sum = sum.Add(d)
	}
	return sum.Div(decimal.NewFromInt(int64(len(ds))))
}
