package utils

import (
	"fmt"
	"strconv"
	"strings"
)

/*
ParseDim converts a slice phrase into the half open range [i1,i2):

	":"   = full range, from 0 to max
	"end" = last index, from max-1 to max
	"N"   = single index, from N to N+1
	N     = single index, from N to N+1
	"2:N" = range, from 2 to N
	":N"  = range, from 0 to N
	"N:"  = range, from N to max
*/
func ParseDim(dimI interface{}, max int) (i1, i2 int) {
	switch dim := dimI.(type) {
	case string:
		switch strings.TrimSpace(dim) {
		case "end":
			i1, i2 = max-1, max
		case ":", "":
			i1, i2 = 0, max
		default:
			i1, i2 = parseRange(strings.TrimSpace(dim), max)
		}
	case int:
		i1, i2 = dim, dim+1
	}
	return
}

func parseRange(dim string, max int) (i1, i2 int) {
	var (
		splits = strings.Split(dim, ":")
		err    error
	)
	if splits[0] == "end" {
		i1 = max - 1
	} else if i1, err = strconv.Atoi(splits[0]); err != nil {
		i1 = 0
	}
	if len(splits) == 1 {
		i2 = i1 + 1
		return
	}
	if i2, err = strconv.Atoi(splits[1]); err != nil {
		i2 = max
	}
	if i2 == i1 {
		i2 = i1 + 1
	}
	return
}

// IndexRange lists the indices selected by a ParseDim phrase, which must fall inside [0,max)
func IndexRange(dim string, max int) (indices []int, err error) {
	i1, i2 := ParseDim(dim, max)
	if i1 < 0 || i2 > max || i1 >= i2 {
		err = fmt.Errorf("range %q selects [%d,%d), outside of [0,%d)", dim, i1, i2, max)
		return
	}
	indices = make([]int, 0, i2-i1)
	for i := i1; i < i2; i++ {
		indices = append(indices, i)
	}
	return
}
