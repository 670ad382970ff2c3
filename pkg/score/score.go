// Package score ranks candidate addresses under the Uniswap v4 address
// challenge rules:
//
//	10 points for every leading 0 nibble
//	40 points if the first 4 is followed by 3 more 4s
//	20 points if the first nibble after the four 4s is NOT a 4
//	20 points if the last 4 nibbles are 4s
//	1 point for every 4
//
// An address whose first nibble after the leading zeros is not a 4 is
// disqualified outright and scores 0.
package score

import "github.com/ethereum/go-ethereum/common"

const (
	leadingZeroPoints   = 10
	fourRunPoints       = 40
	runCompletionPoints = 20
	tailPoints          = 20

	nibbles = 2 * common.AddressLength
)

// Score computes the vanity score of a 20-byte address. Pure function of the
// address bytes; 0 means disqualified.
func Score(addr common.Address) uint32 {
	var total uint32
	leadingZeros := true
	inFourRun := true
	firstNibble := true
	fourCount := 0

	for i := 0; i < nibbles; i++ {
		var nib byte
		if i%2 == 0 {
			nib = addr[i/2] >> 4
		} else {
			nib = addr[i/2] & 0x0f
		}

		if leadingZeros && nib == 0 {
			total += leadingZeroPoints
			continue
		}
		leadingZeros = false

		if inFourRun {
			if firstNibble && nib != 4 {
				// Disqualified: nothing accrued so far counts.
				return 0
			}
			if nib == 4 {
				fourCount++
				if fourCount == 4 {
					total += fourRunPoints
					if i == nibbles-1 {
						total += tailPoints
					}
				}
			} else {
				if fourCount == 4 {
					total += runCompletionPoints
				}
				inFourRun = false
			}
			firstNibble = false
		}

		if nib == 4 {
			total++
		}
	}

	// The challenge prose reads "last 4 nibbles are 4s", but the rule as mined
	// against inspects only these two nibbles. Keep the two-nibble check so
	// scores agree with already-submitted results.
	if addr[18]&0x0f == 0x04 && addr[19]&0xf0 == 0x40 {
		total += tailPoints
	}

	return total
}
