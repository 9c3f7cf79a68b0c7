package i18n

// arabic maps English message ids to their Arabic text. English output uses
// the id itself.
var arabic = map[string]string{
	// columns
	"Date":                 "التاريخ",
	"Time":                 "الوقت",
	"Voucher No":           "رقم المستند",
	"Voucher Type":         "نوع المستند",
	"Description":          "البيان",
	"Document Status":      "حالة المستند",
	"Invoice Status":       "حالة الفاتورة",
	"Payment Type":         "نوع السند",
	"Debit":                "مدين",
	"Credit":               "دائن",
	"Balance":              "الرصيد",
	"Invoice Amount":       "قيمة الفاتورة",
	"User":                 "المستخدم",
	"Cost Center":          "مركز التكلفة",
	"Entry No":             "رقم القيد",
	"Entry Type":           "نوع القيد",
	"Account":              "الحساب",
	"Party Name":           "اسم الطرف",
	"Party Type":           "نوع الطرف",
	"Reference Type":       "نوع المرجع",
	"Reference Name":       "رقم المرجع",
	"Remarks":              "الملاحظات",
	"Status":               "الحالة",
	"Payment No":           "رقم السند",
	"Amount":               "المبلغ",
	"Mode of Payment":      "طريقة الدفع",
	"Reference No":         "الرقم المرجعي",
	"Return Against":       "مرتجع مقابل",
	"Customer":             "العميل",
	"Supplier":             "المورد",
	"Employee":             "الموظف",
	"Tax":                  "الضريبة",
	"POS Profile":          "نقطة البيع",
	"Warehouse":            "المستودع",
	"Credit Return Status": "حالة مرتجع الآجل",
	"Adjustments":          "التعديلات",
	"Net":                  "الصافي",
	"VAT Amount":           "قيمة ضريبة القيمة المضافة",
	"Opening (Dr)":         "الافتتاحي (مدين)",
	"Opening (Cr)":         "الافتتاحي (دائن)",
	"Closing (Dr)":         "الختامي (مدين)",
	"Closing (Cr)":         "الختامي (دائن)",

	// user errors and notices
	"Please select a customer":                                      "يرجى تحديد العميل",
	"Please select a supplier":                                      "يرجى تحديد المورد",
	"Mode of payment is required":                                   "طريقة الدفع مطلوبة",
	"No account is linked to this mode of payment for the company.": "لم يتم العثور على حساب مرتبط بطريقة الدفع لهذه الشركة.",
	"No receivable accounts found for the customer":                 "لم يتم العثور على حسابات مدينة للعميل",
	"No data for this customer in the selected period":              "لا توجد بيانات لهذا العميل في الفترة المحددة",
	"To date must not be before from date":                          "يجب ألا يسبق تاريخ النهاية تاريخ البداية",
	"Invalid date in %s":                                            "تاريخ غير صالح في %s",
	"Invalid time in %s":                                            "وقت غير صالح في %s",
	"Invalid value in %s":                                           "قيمة غير صالحة في %s",

	// synthetic rows
	"Opening Balance":          "الرصيد الافتتاحي",
	"Total":                    "الإجمالي",
	"Difference":               "الفرق",
	"Total receipts":           "إجمالي المقبوضات",
	"Total payments":           "إجمالي المدفوعات",
	"Net movement":             "صافي الحركة",
	"No description":           "لايوجد وصف",
	"Payment for invoices: %s": "سداد للفواتير: %s",
	"Customer: %s":             "العميل: %s",
	"Supplier: %s":             "المورد: %s",
	"Not specified":            "غير محدد",

	// voucher labels
	"Payment":                   "سداد",
	"Receive":                   "استلام",
	"Pay":                       "دفع",
	"Receipt voucher":           "سند قبض",
	"Payment voucher":           "سند صرف",
	"Internal transfer voucher": "سند تحويل داخلي",
	"Payment Entry":             "سند دفع",
	"Sales Invoice":             "فاتورة مبيعات",
	"Purchase Invoice":          "فاتورة مشتريات",
	"Accounting entry":          "قيد محاسبي",
	"Journal Entry":             "قيد يومية",
	"Bank Entry":                "قيد بنكي",
	"Cash Entry":                "قيد نقدي",
	"Credit Note":               "إشعار دائن",
	"Debit Note":                "إشعار مدين",
	"Contra Entry":              "قيد مقابل",
	"Excise Entry":              "قيد ضريبي",
	"Write Off Entry":           "قيد شطب",
	"Opening Entry":             "قيد افتتاحي",
	"Depreciation Entry":        "قيد إهلاك",
	"Internal Transfer":         "تحويل داخلي",

	// document statuses
	"Draft":                 "مسودة",
	"Submitted":             "مقدم",
	"Approved":              "معتمد",
	"Cancelled":             "ملغي",
	"Paid":                  "مدفوع",
	"Unpaid":                "غير مسددة",
	"Partly Paid":           "مسددة جزئياً",
	"Partly Paid (%s%%)":    "مسددة جزئياً (%s%%)",
	"Overdue":               "متأخرة السداد",
	"Fully Paid":            "مسددة بالكامل",
	"Cash invoice":          "فاتورة نقدية",
	"Sales Return":          "مرتجع مبيعات",
	"Purchase Return":       "مرتجع مشتريات",
	"Return":                "مرتجع",
	"Credit Note Issued":    "إشعار دائن مصدر",
	"Debit Note Issued":     "إشعار مدين مصدر",
	"Credit invoice":        "فاتورة آجلة",
	"Unpaid credit invoice": "فاتورة آجلة غير مسددة",

	// tax declaration
	"--- Sales ---":                                  "--- قسم المبيعات ---",
	"--- Purchases ---":                              "--- قسم المشتريات ---",
	"--- Expenses ---":                               "--- قسم المصروفات ---",
	"--- Final summary ---":                          "--- الملخص النهائي ---",
	"Sales at the standard rate":                     "المبيعات الخاضعة للنسبة الأساسية",
	"Exempt or zero-rated sales":                     "المبيعات غير الخاضعة أو الضريبة الصفرية",
	"Total sales":                                    "اجمالي المبيعات",
	"Sales returns at the standard rate":             "مرتجعات المبيعات الخاضعة للنسبة الأساسية",
	"Exempt sales returns":                           "مرتجعات المبيعات غير الخاضعة للضريبة",
	"Total sales returns":                            "اجمالي مرتجعات المبيعات",
	"Net sales (after returns)":                      "صافي المبيعات (بعد خصم المرتجعات)",
	"Purchases at the standard rate":                 "المشتريات الخاضعة للنسبة الأساسية",
	"Exempt or zero-rated purchases":                 "المشتريات غير الخاضعة أو الضريبة الصفرية",
	"Total purchases":                                "اجمالي المشتريات",
	"Purchase returns at the standard rate":          "مرتجعات المشتريات الخاضعة للنسبة الأساسية",
	"Exempt purchase returns":                        "مرتجعات المشتريات غير الخاضعة للضريبة",
	"Total purchase returns":                         "اجمالي مرتجعات المشتريات",
	"Net purchases (after returns)":                  "صافي المشتريات (بعد خصم المرتجعات)",
	"Expenses (journal entries)":                     "المصروفات (القيود اليومية)",
	"Expenses (payment vouchers)":                    "المصروفات (سندات الصرف)",
	"Total recoverable tax (purchases and expenses)": "اجمالي الضريبة المستردة (المشتريات والمصروفات)",
	"Total VAT due for the current tax period":       "اجمالي ضريبة القيمة المضافة المستحقة عن الفترة الضريبية الحالية",
	"Taxable sales":                                  "المبيعات الخاضعة للضريبة",
	"Taxable sales tax":                              "ضريبة المبيعات الخاضعة",
	"Exempt sales":                                   "المبيعات غير الخاضعة",
	"Taxable sales returns":                          "مرتجعات المبيعات الخاضعة",
	"Sales returns tax":                              "ضريبة مرتجعات المبيعات",
	"Net sales":                                      "صافي المبيعات",
	"Net sales tax":                                  "صافي ضريبة المبيعات",
	"Taxable purchases":                              "المشتريات الخاضعة للضريبة",
	"Taxable purchases tax":                          "ضريبة المشتريات الخاضعة",
	"Exempt purchases":                               "المشتريات غير الخاضعة",
	"Taxable purchase returns":                       "مرتجعات المشتريات الخاضعة",
	"Purchase returns tax":                           "ضريبة مرتجعات المشتريات",
	"Net purchases":                                  "صافي المشتريات",
	"Net purchases tax":                              "صافي ضريبة المشتريات",
	"Expense tax (journal entries)":                  "ضريبة المصروفات (القيود اليومية)",
	"Expense tax (payment vouchers)":                 "ضريبة المصروفات (سندات الصرف)",
	"Total recoverable tax":                          "اجمالي الضريبة المستردة",
	"VAT due":                                        "الفرق الضريبي المستحق",

	// report titles
	"Customer Statement":            "كشف حساب عميل",
	"Supplier Statement":            "كشف حساب مورد",
	"Cash Account Statement":        "كشف حساب الصندوق",
	"Journal Entries":               "سجل القيود اليومية",
	"Payment Register":              "سجل السندات",
	"Detailed Sales Log":            "سجل المبيعات التفصيلي",
	"Parent Accounts Trial Balance": "ميزان المراجعة للحسابات الرئيسية",
	"Tax Declaration":               "الإقرار الضريبي",

	// http
	"Report not found":          "التقرير غير موجود",
	"Export not found":          "ملف التصدير غير موجود",
	"Export is not ready":       "ملف التصدير غير جاهز بعد",
	"Export failed":             "فشل التصدير",
	"Unsupported export format": "صيغة تصدير غير مدعومة",
}
