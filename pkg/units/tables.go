package units

// --- Table helpers ---

// scaled declares a unit with a numeric factor.
func scaled(id, label string, f Factor) Unit {
	return Unit{ID: id, Label: label, factor: f}
}

// format declares a unit without a numeric base. Conversions touching it
// resolve to a zero factor.
func format(id, label string) Unit {
	return Unit{ID: id, Label: label}
}

// money declares a currency unit with its ISO 4217 code.
func money(id, label, iso string) Unit {
	return Unit{ID: id, Label: label, Currency: iso}
}

// in places the unit in a named dimension of its category.
func (u Unit) in(dimension string) Unit {
	u.Dimension = dimension
	return u
}

// Dimensions used by heterogeneous categories.
const (
	dimRatio          = "ratio"
	dimMass           = "mass"
	dimMassNormal     = "mass-normal"
	dimMolar          = "molar"
	dimBitcoin        = "bitcoin"
	dimPower          = "power"
	dimIrradiance     = "irradiance"
	dimApparentPower  = "apparent-power"
	dimReactivePower  = "reactive-power"
	dimEnergy         = "energy"
	dimSpecificEnergy = "specific-energy"
	dimCharge         = "charge"
	dimCurrent        = "current"
	dimVoltage        = "voltage"
	dimPowerLog       = "power-log"
	dimResistance     = "resistance"
	dimCapacitance    = "capacitance"
	dimInductance     = "inductance"
	dimLuminousFlux   = "luminous-flux"
	dimIlluminance    = "illuminance"
	dimTorque         = "torque"
	dimForce          = "force"
	dimActivity       = "activity"
	dimAbsorbedDose   = "absorbed-dose"
	dimEquivalentDose = "equivalent-dose"
	dimExposure       = "exposure"
	dimDoseRate       = "dose-rate"
	dimNormal         = "normal"
)

// categoryTable returns the registry contents in declaration order.
// Declaration order is part of the contract: FindCategory returns the first
// category that lists an id.
func categoryTable() []Category {
	return []Category{
		{
			// base: second
			Name: Time,
			Units: []Unit{
				format("hertz", "Hertz (1/s)"),
				scaled("nanoseconds", "nanoseconds (ns)", exact("0.000000001")),
				scaled("microseconds", "microseconds (µs)", exact("0.000001")),
				scaled("milliseconds", "milliseconds (ms)", exact("0.001")),
				scaled("seconds", "seconds (s)", exact("1")),
				scaled("minutes", "minutes (m)", exact("60")),
				scaled("hours", "hours (h)", exact("3600")),
				scaled("days", "days (d)", exact("86400")),
				scaled("durationMs", "duration in ms (dtdurationms)", exact("0.001")),
				scaled("durationS", "duration in s (dtdurations)", exact("1")),
				scaled("durationHms", "duration in h:m:s (dthms)", exact("1")),
				scaled("durationDhms", "duration in d:h:m:s (dtdhms)", exact("1")),
				scaled("timeticks", "timeticks (timeticks)", exact("0.01")),
				scaled("clockMs", "clock in ms (clockms)", exact("0.001")),
				scaled("clockS", "clock in s (clocks)", exact("1")),
			},
		},
		{
			// base: events per second
			Name: Throughput,
			Units: []Unit{
				scaled("countsPerSec", "counts/sec (cps)", exact("1")),
				scaled("opsPerSec", "ops/sec (ops)", exact("1")),
				scaled("requestsPerSec", "requests/sec (reqps)", exact("1")),
				scaled("readsPerSec", "reads/sec (rps)", exact("1")),
				scaled("writesPerSec", "writes/sec (wps)", exact("1")),
				scaled("ioOpsPerSec", "I/O operations/sec (iops)", exact("1")),
				scaled("countsPerMin", "counts/min (cpm)", ratio("1", "60")),
				scaled("opsPerMin", "ops/min (opm)", ratio("1", "60")),
				scaled("readsPerMin", "reads/min (rpm)", ratio("1", "60")),
				scaled("writesPerMin", "writes/min (wpm)", ratio("1", "60")),
			},
		},
		{
			// base: byte
			Name: Data,
			Units: []Unit{
				scaled("bytesIEC", "bytes(IEC)", exact("1")),
				scaled("bytesSI", "bytes(SI)", exact("1")),
				scaled("bitsIEC", "bits(IEC)", exact("0.125")),
				scaled("bitsSI", "bits(SI)", exact("0.125")),
				scaled("kibibytes", "kibibytes", exact("1024")),
				scaled("kilobytes", "kilobytes", exact("1000")),
				scaled("mebibytes", "mebibytes", exact("1048576")),
				scaled("megabytes", "megabytes", exact("1000000")),
				scaled("gibibytes", "gibibytes", exact("1073741824")),
				scaled("gigabytes", "gigabytes", exact("1000000000")),
				scaled("tebibytes", "tebibytes", exact("1099511627776")),
				scaled("terabytes", "terabytes", exact("1000000000000")),
				scaled("pebibytes", "pebibytes", exact("1125899906842624")),
				scaled("petabytes", "petabytes", exact("1000000000000000")),
			},
		},
		{
			// base: byte per second
			Name: DataRate,
			Units: []Unit{
				format("packetsPerSec", "packets/sec"),
				scaled("bytesPerSecIEC", "bytes/sec(IEC)", exact("1")),
				scaled("bytesPerSecSI", "bytes/sec(SI)", exact("1")),
				scaled("bitsPerSecIEC", "bits/sec(IEC)", exact("0.125")),
				scaled("bitsPerSecSI", "bits/sec(SI)", exact("0.125")),
				scaled("kibibytesPerSecIEC", "kibibytes/sec", exact("1024")),
				scaled("kibibitsPerSecIEC", "kibibits/sec", exact("128")),
				scaled("kilobytesPerSecSI", "kilobytes/sec", exact("1000")),
				scaled("kilobitsPerSecSI", "kilobits/sec", exact("125")),
				scaled("mebibytesPerSecIEC", "mebibytes/sec", exact("1048576")),
				scaled("mebibitsPerSecIEC", "mebibits/sec", exact("131072")),
				scaled("megabytesPerSecSI", "megabytes/sec", exact("1000000")),
				scaled("megabitsPerSecSI", "megabits/sec", exact("125000")),
				scaled("gibibytesPerSecIEC", "gibibytes/sec", exact("1073741824")),
				scaled("gibibitsPerSecIEC", "gibibits/sec", exact("134217728")),
				scaled("gigabytesPerSecSI", "gigabytes/sec", exact("1000000000")),
				scaled("gigabitsPerSecSI", "gigabits/sec", exact("125000000")),
				scaled("tebibytesPerSecIEC", "tebibytes/sec", exact("1099511627776")),
				scaled("tebibitsPerSecIEC", "tebibits/sec", exact("137438953472")),
				scaled("terabytesPerSecSI", "terabytes/sec", exact("1000000000000")),
				scaled("terabitsPerSecSI", "terabits/sec", exact("125000000000")),
				scaled("pebibytesPerSecIEC", "pebibytes/sec", exact("1125899906842624")),
				scaled("pebibitsPerSecIEC", "pebibits/sec", exact("140737488355328")),
				scaled("petabytesPerSecSI", "petabytes/sec", exact("1000000000000000")),
				scaled("petabitsPerSecSI", "petabits/sec", exact("125000000000000")),
			},
		},
		{
			// base: hash per second
			Name: HashRate,
			Units: []Unit{
				scaled("hashesPerSec", "hashes/sec", exact("1")),
				scaled("kiloHashesPerSec", "kilohashes/sec", exact("1000")),
				scaled("megaHashesPerSec", "megahashes/sec", exact("1000000")),
				scaled("gigaHashesPerSec", "gigahashes/sec", exact("1000000000")),
				scaled("teraHashesPerSec", "terahashes/sec", exact("1000000000000")),
				scaled("petaHashesPerSec", "petahashes/sec", exact("1000000000000000")),
				scaled("exaHashesPerSec", "exahashes/sec", exact("1000000000000000000")),
			},
		},
		{
			// base: the plain number; percentages use percent points
			Name: Miscellaneous,
			Units: []Unit{
				scaled("none", "none", exact("1")),
				format("string", "String"),
				scaled("short", "short", exact("1")),
				scaled("percent", "Percent (0-100)", exact("1")).in(dimRatio),
				scaled("percentUnit", "Percent (0.0-1.0)", exact("100")).in(dimRatio),
				scaled("humidity", "Humidity (%H)", exact("1")).in(dimRatio),
				format("decibel", "Decibel"),
				scaled("hexadecimal0x", "Hexadecimal (0x)", exact("1")),
				scaled("hexadecimal", "Hexadecimal", exact("1")),
				scaled("scientificNotation", "Scientific notation", exact("1")),
				scaled("localeFormat", "Locale format", exact("1")),
				format("pixels", "Pixels"),
			},
		},
		{
			// base: m/s²
			Name: Acceleration,
			Units: []Unit{
				scaled("metersPerSecondSquared", "Meters/sec²", exact("1")),
				scaled("feetPerSecondSquared", "Feet/sec²", exact("0.3048")),
				scaled("gUnit", "G unit", exact("9.80665")),
			},
		},
		{
			// base: degree
			Name: Angle,
			Units: []Unit{
				scaled("degrees", "Degrees (°)", exact("1")),
				// 180/π, truncated well past float64 precision
				scaled("radians", "Radians", exact("57.295779513082320876798154814105170332")),
				scaled("gradians", "Gradian", exact("0.9")),
				scaled("arcMinutes", "Arc Minutes", ratio("1", "60")),
				scaled("arcSeconds", "Arc Seconds", ratio("1", "3600")),
			},
		},
		{
			// base: m²
			Name: Area,
			Units: []Unit{
				scaled("squareMeters", "Square Meters (m²)", exact("1")),
				scaled("squareFeet", "Square Feet (ft²)", exact("0.09290304")),
				scaled("squareMiles", "Square Miles (mi²)", exact("2589988.110336")),
			},
		},
		{
			// base: FLOP/s
			Name: Computation,
			Units: []Unit{
				scaled("flops", "FLOP/s", exact("1")),
				scaled("megaFlops", "MFLOP/s", exact("1000000")),
				scaled("gigaFlops", "GFLOP/s", exact("1000000000")),
				scaled("teraFlops", "TFLOP/s", exact("1000000000000")),
				scaled("petaFlops", "PFLOP/s", exact("1000000000000000")),
				scaled("exaFlops", "EFLOP/s", exact("1000000000000000000")),
				scaled("zettaFlops", "ZFLOP/s", exact("1000000000000000000000")),
				scaled("yottaFlops", "YFLOP/s", exact("1000000000000000000000000")),
			},
		},
		{
			// base: ppm for ratios, µg/m³ for mass concentration
			Name: Concentration,
			Units: []Unit{
				scaled("partsPerMillion", "parts-per-million (ppm)", exact("1")).in(dimRatio),
				scaled("partsPerBillion", "parts-per-billion (ppb)", exact("0.001")).in(dimRatio),
				scaled("nanogramPerCubicMeter", "nanogram per cubic meter (ng/m³)", exact("0.001")).in(dimMass),
				scaled("nanogramPerNormalCubicMeter", "nanogram per normal cubic meter (ng/Nm³)", exact("0.001")).in(dimMassNormal),
				scaled("microgramPerCubicMeter", "microgram per cubic meter (μg/m³)", exact("1")).in(dimMass),
				scaled("microgramPerNormalCubicMeter", "microgram per normal cubic meter (μg/Nm³)", exact("1")).in(dimMassNormal),
				scaled("milligramPerCubicMeter", "milligram per cubic meter (mg/m³)", exact("1000")).in(dimMass),
				scaled("milligramPerNormalCubicMeter", "milligram per normal cubic meter (mg/Nm³)", exact("1000")).in(dimMassNormal),
				scaled("gramPerCubicMeter", "gram per cubic meter (g/m³)", exact("1000000")).in(dimMass),
				scaled("gramPerNormalCubicMeter", "gram per normal cubic meter (g/Nm³)", exact("1000000")).in(dimMassNormal),
				scaled("milligramsPerDecilitre", "milligrams per decilitre (mg/dL)", exact("10000000")).in(dimMass),
				format("millimolesPerLitre", "millimoles per litre (mmol/L)").in(dimMolar),
			},
		},
		{
			// exchange rates are not static; only the bitcoin family scales
			Name: Currency,
			Units: []Unit{
				money("currencyUSD", "Dollars ($)", "USD"),
				money("currencyGBP", "Pounds (£)", "GBP"),
				money("currencyEUR", "Euro (€)", "EUR"),
				money("currencyJPY", "Yen (¥)", "JPY"),
				money("currencyRUB", "Rubles (₽)", "RUB"),
				money("currencyUAH", "Hryvnias (₴)", "UAH"),
				money("currencyBRL", "Real (R$)", "BRL"),
				money("currencyDKK", "Danish Krone (kr)", "DKK"),
				money("currencyISK", "Icelandic Króna (kr)", "ISK"),
				money("currencyNOK", "Norwegian Krone (kr)", "NOK"),
				money("currencySEK", "Swedish Krona (kr)", "SEK"),
				money("currencyCZK", "Czech koruna (czk)", "CZK"),
				money("currencyCHF", "Swiss franc (CHF)", "CHF"),
				money("currencyPLN", "Polish Złoty (PLN)", "PLN"),
				scaled("currencyBTC", "Bitcoin (฿)", exact("1")).in(dimBitcoin),
				scaled("currencyMilliBTC", "Milli Bitcoin (฿)", exact("0.001")).in(dimBitcoin),
				scaled("currencyMicroBTC", "Micro Bitcoin (฿)", exact("0.000001")).in(dimBitcoin),
				money("currencyZAR", "South African Rand (R)", "ZAR"),
				money("currencyINR", "Indian Rupee (₹)", "INR"),
				money("currencyKRW", "South Korean Won (₩)", "KRW"),
				money("currencyIDR", "Indonesian Rupiah (Rp)", "IDR"),
				money("currencyPHP", "Philippine Peso (PHP)", "PHP"),
				money("currencyVND", "Vietnamese Dong (VND)", "VND"),
			},
		},
		{
			Name: Datetime,
			Units: []Unit{
				format("dateTimeISO", "Datetime ISO"),
				format("dateTimeISONoDateIfToday", "Datetime ISO (No date if today)"),
				format("dateTimeUS", "Datetime US"),
				format("dateTimeUSNoDateIfToday", "Datetime US (No date if today)"),
				format("dateTimeLocal", "Datetime local"),
				format("dateTimeLocalNoDateIfToday", "Datetime local (No date if today)"),
				format("dateTimeSystem", "Datetime default"),
				format("dateTimeFromNow", "From Now"),
			},
		},
		{
			// electrical quantities, one base per dimension (W, J, A, V, ...)
			Name: Energy,
			Units: []Unit{
				scaled("watt", "Watt (W)", exact("1")).in(dimPower),
				scaled("kilowatt", "Kilowatt (kW)", exact("1000")).in(dimPower),
				scaled("megawatt", "Megawatt (MW)", exact("1000000")).in(dimPower),
				scaled("gigawatt", "Gigawatt (GW)", exact("1000000000")).in(dimPower),
				scaled("milliwatt", "Milliwatt (mW)", exact("0.001")).in(dimPower),
				scaled("wattPerSquareMeter", "Watt per square meter (W/m²)", exact("1")).in(dimIrradiance),
				scaled("voltAmpere", "Volt-Ampere (VA)", exact("1")).in(dimApparentPower),
				scaled("kiloVoltAmpere", "Kilovolt-Ampere (kVA)", exact("1000")).in(dimApparentPower),
				scaled("voltAmpereReactive", "Volt-Ampere reactive (VAr)", exact("1")).in(dimReactivePower),
				scaled("kiloVoltAmpereReactive", "Kilovolt-Ampere reactive (kVAr)", exact("1000")).in(dimReactivePower),
				scaled("wattHour", "Watt-hour (Wh)", exact("3600")).in(dimEnergy),
				scaled("wattHourPerKilogram", "Watt-hour per Kilogram (Wh/kg)", exact("1")).in(dimSpecificEnergy),
				scaled("kilowattHour", "Kilowatt-hour (kWh)", exact("3600000")).in(dimEnergy),
				scaled("kilowattMinute", "Kilowatt-min (kWm)", exact("60000")).in(dimEnergy),
				scaled("ampereHour", "Ampere-hour (Ah)", exact("1")).in(dimCharge),
				scaled("kiloAmpereHour", "Kiloampere-hour (kAh)", exact("1000")).in(dimCharge),
				scaled("milliAmpereHour", "Milliampere-hour (mAh)", exact("0.001")).in(dimCharge),
				scaled("joule", "Joule (J)", exact("1")).in(dimEnergy),
				scaled("electronVolt", "Electron volt (eV)", exact("0.0000000000000000001602176634")).in(dimEnergy),
				scaled("ampere", "Ampere (A)", exact("1")).in(dimCurrent),
				scaled("kiloAmpere", "Kiloampere (kA)", exact("1000")).in(dimCurrent),
				scaled("milliAmpere", "Milliampere (mA)", exact("0.001")).in(dimCurrent),
				scaled("volt", "Volt (V)", exact("1")).in(dimVoltage),
				scaled("kiloVolt", "Kilovolt (kV)", exact("1000")).in(dimVoltage),
				scaled("milliVolt", "Millivolt (mV)", exact("0.001")).in(dimVoltage),
				format("decibelMilliwatt", "Decibel-milliwatt (dBm)").in(dimPowerLog),
				scaled("ohm", "Ohm (Ω)", exact("1")).in(dimResistance),
				scaled("kiloOhm", "Kiloohm (kΩ)", exact("1000")).in(dimResistance),
				scaled("megaOhm", "Megaohm (MΩ)", exact("1000000")).in(dimResistance),
				scaled("farad", "Farad (F)", exact("1")).in(dimCapacitance),
				scaled("microFarad", "Microfarad (µF)", exact("0.000001")).in(dimCapacitance),
				scaled("nanoFarad", "Nanofarad (nF)", exact("0.000000001")).in(dimCapacitance),
				scaled("picoFarad", "Picofarad (pF)", exact("0.000000000001")).in(dimCapacitance),
				scaled("femtoFarad", "Femtofarad (fF)", exact("0.000000000000001")).in(dimCapacitance),
				scaled("henry", "Henry (H)", exact("1")).in(dimInductance),
				scaled("milliHenry", "Millihenry (mH)", exact("0.001")).in(dimInductance),
				scaled("microHenry", "Microhenry (µH)", exact("0.000001")).in(dimInductance),
				scaled("lumens", "Lumens (Lm)", exact("1")).in(dimLuminousFlux),
			},
		},
		{
			// base: m³/s
			Name: Flow,
			Units: []Unit{
				scaled("gallonsPerMinute", "Gallons/min (gpm)", ratio("0.003785411784", "60")),
				scaled("cubicMetersPerSec", "Cubic meters/sec (cms)", exact("1")),
				scaled("cubicFeetPerSec", "Cubic feet/sec (cfs)", exact("0.028316846592")),
				scaled("cubicFeetPerMin", "Cubic feet/min (cfm)", ratio("0.028316846592", "60")),
				scaled("litrePerHour", "Litre/hour", ratio("0.001", "3600")),
				scaled("litrePerMin", "Litre/min (L/min)", ratio("0.001", "60")),
				scaled("milliLitrePerMin", "milliLitre/min (mL/min)", ratio("0.000001", "60")),
				scaled("lux", "Lux (lx)", exact("1")).in(dimIlluminance),
			},
		},
		{
			Name: Force,
			Units: []Unit{
				scaled("newtonMeters", "Newton-meters (Nm)", exact("1")).in(dimTorque),
				scaled("kiloNewtonMeters", "Kilonewton-meters (kNm)", exact("1000")).in(dimTorque),
				scaled("newtons", "Newtons (N)", exact("1")).in(dimForce),
				scaled("kiloNewtons", "Kilonewtons (kN)", exact("1000")).in(dimForce),
			},
		},
		{
			// base: gram
			Name: Mass,
			Units: []Unit{
				scaled("milligram", "milligram (mg)", exact("0.001")),
				scaled("gram", "gram (g)", exact("1")),
				scaled("pound", "pound (lb)", exact("453.59237")),
				scaled("kilogram", "kilogram (kg)", exact("1000")),
				scaled("metricTon", "metric ton (t)", exact("1000000")),
			},
		},
		{
			// base: metre
			Name: Length,
			Units: []Unit{
				scaled("millimeter", "millimeter (mm)", exact("0.001")),
				scaled("inch", "inch (in)", exact("0.0254")),
				scaled("foot", "feet (ft)", exact("0.3048")),
				scaled("meter", "meter (m)", exact("1")),
				scaled("kilometer", "kilometer (km)", exact("1000")),
				scaled("mile", "mile (mi)", exact("1609.344")),
			},
		},
		{
			// base: pascal
			Name: Pressure,
			Units: []Unit{
				scaled("millibars", "Millibars", exact("100")),
				scaled("bars", "Bars", exact("100000")),
				scaled("kilobars", "Kilobars", exact("100000000")),
				scaled("pascals", "Pascals", exact("1")),
				scaled("hectopascals", "Hectopascals", exact("100")),
				scaled("kilopascals", "Kilopascals", exact("1000")),
				scaled("inchesOfMercury", "Inches of mercury", exact("3386.389")),
				scaled("poundsPerSquareInch", "PSI", exact("6894.757293168361")),
			},
		},
		{
			Name: Radiation,
			Units: []Unit{
				scaled("becquerel", "Becquerel (Bq)", exact("1")).in(dimActivity),
				scaled("curie", "curie (Ci)", exact("37000000000")).in(dimActivity),
				scaled("gray", "Gray (Gy)", exact("1")).in(dimAbsorbedDose),
				scaled("rad", "rad", exact("0.01")).in(dimAbsorbedDose),
				scaled("sievert", "Sievert (Sv)", exact("1")).in(dimEquivalentDose),
				scaled("milliSievert", "milliSievert (mSv)", exact("0.001")).in(dimEquivalentDose),
				scaled("microSievert", "microSievert (µSv)", exact("0.000001")).in(dimEquivalentDose),
				scaled("rem", "rem", exact("0.01")).in(dimEquivalentDose),
				scaled("coulombPerKilogram", "Exposure (C/kg)", exact("1")).in(dimExposure),
				scaled("roentgen", "roentgen (R)", exact("0.000258")).in(dimExposure),
				scaled("sievertPerHour", "Sievert/hour (Sv/h)", exact("1")).in(dimDoseRate),
				scaled("milliSievertPerHour", "milliSievert/hour (mSv/h)", exact("0.001")).in(dimDoseRate),
				scaled("microSievertPerHour", "microSievert/hour (µSv/h)", exact("0.000001")).in(dimDoseRate),
			},
		},
		{
			// base: revolution per second
			Name: RotationSpeed,
			Units: []Unit{
				scaled("revolutionsPerMinute", "Revolutions per minute (rpm)", ratio("1", "60")),
				scaled("rotationHertz", "Hertz (Hz)", exact("1")),
				// 1/(2π)
				scaled("radiansPerSecond", "Radians per second (rad/s)", exact("0.159154943091895335768883763372514362")),
				scaled("degreesPerSecond", "Degrees per second (°/s)", ratio("1", "360")),
			},
		},
		{
			// offset scales, not expressible as a factor
			Name: Temperature,
			Units: []Unit{
				format("celsius", "Celsius (°C)"),
				format("fahrenheit", "Fahrenheit (°F)"),
				format("kelvin", "Kelvin (K)"),
			},
		},
		{
			// base: m/s
			Name: Velocity,
			Units: []Unit{
				scaled("metersPerSecond", "meters/second (m/s)", exact("1")),
				scaled("kilometersPerHour", "kilometers/hour (km/h)", ratio("1000", "3600")),
				scaled("milesPerHour", "miles/hour (mph)", exact("0.44704")),
				scaled("knots", "knot (kn)", ratio("1852", "3600")),
			},
		},
		{
			// base: litre
			Name: Volume,
			Units: []Unit{
				scaled("millilitre", "millilitre (mL)", exact("0.001")),
				scaled("litre", "litre (L)", exact("1")),
				scaled("cubicMeter", "cubic meter", exact("1000")),
				scaled("normalCubicMeter", "Normal cubic meter", exact("1000")).in(dimNormal),
				scaled("cubicDecimeter", "cubic decimeter", exact("1")),
				scaled("gallons", "gallons", exact("3.785411784")),
			},
		},
		{
			Name: Boolean,
			Units: []Unit{
				format("trueFalse", "True / False"),
				format("yesNo", "Yes / No"),
				format("onOff", "On / Off"),
			},
		},
	}
}
