/*Command bio-maf-filter streams a MAF genome alignment through a chain of
  synteny-block filters and writes the surviving blocks back out as MAF.
  Input and output paths may be local or s3://, and .gz suffixes enable
  transparent compression. Each filter is enabled by its flags and applied
  in the fixed order: size, species, merge, full-gap, alignment (gap),
  mask, quality.

  The windowed filters can keep the alignment regions they remove: pass
  -trash-out to write them to a second MAF file, advanced in lockstep with
  the main output.

  Usage:
    bio-maf-filter -min-block-size=50 -species=hg19,mm10 -strict \
        -merge=hg19,mm10 -max-dist=10 \
        -window-size=10 -window-step=5 -max-gap=2 \
        -trash-out=removed.maf.gz input.maf.gz output.maf.gz
*/
package main
